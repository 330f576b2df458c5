package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

const (
	EntityProduct  = "product"
	EntityCustomer = "customer"
	EntityCartItem = "cart item"
)

// NotFoundError names the entity kind and id whose lookup failed.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v: not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(entity string, id any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn against a repo bound to a single store transaction.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

// forUpdate adds a row lock where the dialect has one; sqlite serializes
// writers on its own.
func (r *GormRepo) forUpdate(q *gorm.DB) *gorm.DB {
	if r.DB.Dialector.Name() == "sqlite" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeEscaped is appended to LIKE conditions whose pattern came from
// contains or prefix.
const likeEscaped = ` ESCAPE '\'`

// contains matches s literally anywhere in a lower-cased column.
func contains(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func prefix(s string) string {
	return likeEscaper.Replace(s) + "%"
}

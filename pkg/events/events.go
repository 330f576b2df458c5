package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TopicProducts  = "product_events"
	TopicCustomers = "customer_events"
	TopicCart      = "cart_events"
)

type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

func New(typ string, data any) Event {
	return Event{
		ID:   uuid.NewString(),
		Type: typ,
		At:   time.Now().UTC(),
		Data: data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event Event) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, Event) error { return nil }
func (Nop) Close() error                                        { return nil }

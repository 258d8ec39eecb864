package events

import (
	"context"
	"time"
)

// Tipos de evento que publica la API
const (
	ProductCreated    = "product.created"
	ProductUpdated    = "product.updated"
	ProductDeleted    = "product.deleted"
	CollectionCreated = "collection.created"
	CollectionUpdated = "collection.updated"
	CollectionDeleted = "collection.deleted"
	ReviewCreated     = "review.created"
	CartCreated       = "cart.created"
	CartDeleted       = "cart.deleted"
	CartItemAdded     = "cart_item.added"
	CartItemUpdated   = "cart_item.updated"
	CartItemRemoved   = "cart_item.removed"
	CustomerCreated   = "customer.created"
	CustomerUpdated   = "customer.updated"
	CustomerDeleted   = "customer.deleted"
)

// Event describe un cambio sobre un recurso
type Event struct {
	Type       string    `json:"type"`
	ResourceID string    `json:"resource_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(eventType, resourceID string) Event {
	return Event{Type: eventType, ResourceID: resourceID, OccurredAt: time.Now().UTC()}
}

// Scoped crea un evento de un recurso anidado
func Scoped(eventType, parentID, resourceID string) Event {
	e := New(eventType, resourceID)
	e.ParentID = parentID
	return e
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop descarta los eventos; se usa cuando no hay broker configurado
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

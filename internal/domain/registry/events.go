package registry

import (
	"context"
	"time"

	"medicine-reminder/internal/domain/medicines"
)

type EventType string

const (
	EventCreated EventType = "medicine.created"
	EventUpdated EventType = "medicine.updated"
	EventDeleted EventType = "medicine.deleted"
)

// Event describe un cambio ya confirmado por el record store.
type Event struct {
	Type       EventType           `json:"type"`
	UserID     string              `json:"user_id"`
	MedicineID string              `json:"medicine_id"`
	Medicine   *medicines.Medicine `json:"medicine,omitempty"`
	At         time.Time           `json:"at"`
}

// EventPublisher entrega eventos fuera del proceso (broker). Un fallo no afecta al usuario.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, e Event) error { return nil }

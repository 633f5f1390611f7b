// Package event carries change notifications between services.
package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	ReservationCreated  Kind = "reservation.created"
	ReservationCanceled Kind = "reservation.canceled"
	ReservationWatched  Kind = "reservation.watched"
	ReservationRated    Kind = "reservation.rated"
	CartChanged         Kind = "cart.changed"
	ScreeningsChanged   Kind = "screenings.changed"
)

type Event struct {
	Kind          Kind      `json:"kind"`
	UserID        uuid.UUID `json:"user_id,omitempty"`
	ReservationID uuid.UUID `json:"reservation_id,omitempty"`
	ScreeningID   uuid.UUID `json:"screening_id,omitempty"`
	At            time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

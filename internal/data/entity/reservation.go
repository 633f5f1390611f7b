package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusReserved ReservationStatus = "reserved"
	ReservationStatusWatched  ReservationStatus = "watched"
	ReservationStatusCanceled ReservationStatus = "canceled"
)

type Reservation struct {
	BaseSimple
	ScreeningID     uuid.UUID         `db:"screening_id"`
	Screening       *Screening        `db:"-"`
	UserID          uuid.UUID         `db:"user_id"`
	ReservationDate time.Time         `db:"reservation_date"`
	Status          ReservationStatus `db:"status"`
	Rating          *float64          `db:"rating"`
	ReviewText      *string           `db:"review_text"`
}

// CanTransition reports whether the state machine allows moving to next.
// reserved -> canceled | watched, watched -> watched (rating).
func (r *Reservation) CanTransition(next ReservationStatus) bool {
	switch r.Status {
	case ReservationStatusReserved:
		return next == ReservationStatusCanceled || next == ReservationStatusWatched
	case ReservationStatusWatched:
		return next == ReservationStatusWatched
	}
	return false
}

func (r *Reservation) Clone() *Reservation {
	if r == nil {
		return nil
	}
	c := *r
	if r.Rating != nil {
		v := *r.Rating
		c.Rating = &v
	}
	if r.ReviewText != nil {
		v := *r.ReviewText
		c.ReviewText = &v
	}
	c.Screening = r.Screening.Clone()
	return &c
}

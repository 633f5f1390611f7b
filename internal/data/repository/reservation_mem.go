package repository

import (
	"context"
	"fmt"

	"movie-reservation/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memoryReservationRepository struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memoryReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.reservations[id].Clone(), nil
}

func (r *memoryReservationRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reservations := make([]*entity.Reservation, 0)
	for _, id := range r.store.reservationOrder {
		res := r.store.reservations[id]
		if res.UserID == userID {
			reservations = append(reservations, res.Clone())
		}
	}
	return reservations, nil
}

// Commit validates every claim before applying any of them, so a failing
// item leaves screenings, reservations and the cart untouched.
func (r *memoryReservationRepository) Commit(ctx context.Context, userID uuid.UUID, items []*entity.Reservation, fromCart bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	inCart := make(map[uuid.UUID]bool, len(r.store.carts[userID]))
	for _, it := range r.store.carts[userID] {
		inCart[it.ID] = true
	}

	claims := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		if _, exists := r.store.reservations[it.ID]; exists {
			return fmt.Errorf("commit reservations: reservation %s already exists: %w", it.ID, ErrConflict)
		}
		if fromCart && !inCart[it.ID] {
			return fmt.Errorf("commit reservations: item %s is no longer in the cart: %w", it.ID, ErrConflict)
		}
		claims[it.ScreeningID]++
	}

	for screeningID, n := range claims {
		s, ok := r.store.screenings[screeningID]
		if !ok {
			return fmt.Errorf("commit reservations: screening %s: %w", screeningID, ErrNotFound)
		}
		if s.AvailableSeats < n {
			r.log.Warn("Commit rejected, not enough seats",
				zap.String("screening_id", screeningID.String()),
				zap.Int("available", s.AvailableSeats),
				zap.Int("requested", n),
			)
			return fmt.Errorf("commit reservations: screening %s: %w", screeningID, ErrSoldOut)
		}
	}

	for screeningID, n := range claims {
		r.store.screenings[screeningID].AvailableSeats -= n
	}

	committed := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		stored := it.Clone()
		stored.Screening = nil
		r.store.reservations[stored.ID] = stored
		r.store.reservationOrder = append(r.store.reservationOrder, stored.ID)
		committed[stored.ID] = true
	}

	if fromCart {
		left := make([]*entity.Reservation, 0, len(r.store.carts[userID]))
		for _, it := range r.store.carts[userID] {
			if !committed[it.ID] {
				left = append(left, it)
			}
		}
		if len(left) == 0 {
			delete(r.store.carts, userID)
		} else {
			r.store.carts[userID] = left
		}
	}

	return nil
}

func (r *memoryReservationRepository) Transition(ctx context.Context, id uuid.UUID, from, to entity.ReservationStatus, seatDelta int) (*entity.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res, ok := r.store.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	if res.Status != from {
		return nil, fmt.Errorf("reservation %s is %s, expected %s: %w", id, res.Status, from, ErrConflict)
	}

	if seatDelta != 0 {
		if s, ok := r.store.screenings[res.ScreeningID]; ok {
			if s.AvailableSeats+seatDelta < 0 {
				return nil, fmt.Errorf("reservation %s: screening %s: %w", id, s.ID, ErrSoldOut)
			}
			s.AvailableSeats += seatDelta
		}
	}

	res.Status = to
	return res.Clone(), nil
}

func (r *memoryReservationRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewText *string, review *entity.Review) (*entity.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res, ok := r.store.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	if res.Status != entity.ReservationStatusWatched {
		return nil, fmt.Errorf("reservation %s is %s: %w", id, res.Status, ErrConflict)
	}

	res.Rating = &rating
	res.ReviewText = reviewText
	if review != nil {
		r.store.putReview(review)
	}
	return res.Clone(), nil
}

package repository

import (
	"context"

	"movie-reservation/internal/data/entity"

	"github.com/google/uuid"
)

type memoryCartRepository struct {
	store *memoryStore
}

func (r *memoryCartRepository) Items(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	items := make([]*entity.Reservation, 0, len(r.store.carts[userID]))
	for _, it := range r.store.carts[userID] {
		items = append(items, it.Clone())
	}
	return items, nil
}

func (r *memoryCartRepository) AddItem(ctx context.Context, userID uuid.UUID, item *entity.Reservation) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, it := range r.store.carts[userID] {
		if it.ScreeningID == item.ScreeningID {
			return false, nil
		}
	}

	stored := item.Clone()
	stored.Screening = nil
	r.store.carts[userID] = append(r.store.carts[userID], stored)
	return true, nil
}

func (r *memoryCartRepository) RemoveItem(ctx context.Context, userID, reservationID uuid.UUID) (*entity.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.carts[userID]
	for i, it := range items {
		if it.ID == reservationID {
			r.store.carts[userID] = append(items[:i:i], items[i+1:]...)
			return it, nil
		}
	}
	return nil, nil
}

func (r *memoryCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.carts, userID)
	return nil
}

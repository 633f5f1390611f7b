package repository

import (
	"context"
	"fmt"
	"time"

	"movie-reservation/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memoryScreeningRepository struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memoryScreeningRepository) ReplaceAll(ctx context.Context, screenings []*entity.Screening) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.screenings = make(map[uuid.UUID]*entity.Screening, len(screenings))
	r.store.screeningOrder = make([]uuid.UUID, 0, len(screenings))
	for _, s := range screenings {
		r.store.screenings[s.ID] = s.Clone()
		r.store.screeningOrder = append(r.store.screeningOrder, s.ID)
	}

	r.log.Debug("Screenings replaced", zap.Int("count", len(screenings)))
	return nil
}

func (r *memoryScreeningRepository) Create(ctx context.Context, screening *entity.Screening) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.screenings[screening.ID]; exists {
		return fmt.Errorf("create screening %s: duplicate id", screening.ID)
	}
	r.store.screenings[screening.ID] = screening.Clone()
	r.store.screeningOrder = append(r.store.screeningOrder, screening.ID)
	return nil
}

func (r *memoryScreeningRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.screenings[id].Clone(), nil
}

func (r *memoryScreeningRepository) Find(ctx context.Context, filter entity.ScreeningFilter) ([]*entity.Screening, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	screenings := make([]*entity.Screening, 0)
	for _, id := range r.store.screeningOrder {
		s := r.store.screenings[id]
		if filter.Match(s) {
			screenings = append(screenings, s.Clone())
		}
	}
	return screenings, nil
}

func (r *memoryScreeningRepository) Update(ctx context.Context, screening *entity.Screening) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.screenings[screening.ID]; !exists {
		return fmt.Errorf("screening %s: %w", screening.ID, ErrNotFound)
	}
	if screening.AvailableSeats < 0 {
		return fmt.Errorf("screening %s: negative seat count", screening.ID)
	}

	updated := screening.Clone()
	updated.UpdatedAt = time.Now()
	r.store.screenings[screening.ID] = updated
	return nil
}

func (r *memoryScreeningRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.screenings[id]; !exists {
		return fmt.Errorf("screening %s: %w", id, ErrNotFound)
	}
	delete(r.store.screenings, id)
	r.store.screeningOrder = removeID(r.store.screeningOrder, id)
	return nil
}

package repository

import (
	"context"

	"movie-reservation/internal/data/entity"

	"github.com/google/uuid"
)

type memoryReviewRepository struct {
	store *memoryStore
}

func (r *memoryReviewRepository) Upsert(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.putReview(review), nil
}

// putReview keeps one review per (movie, user). An existing review keeps
// its id. Callers hold store.mu.
func (s *memoryStore) putReview(review *entity.Review) *entity.Review {
	for _, existing := range s.reviews {
		if existing.MovieID == review.MovieID && existing.UserID == review.UserID {
			existing.UserName = review.UserName
			existing.Rating = review.Rating
			existing.Comment = review.Comment
			existing.CreatedAt = review.CreatedAt
			out := *existing
			return &out
		}
	}

	stored := *review
	s.reviews = append(s.reviews, &stored)
	out := stored
	return &out
}

func (r *memoryReviewRepository) FindByMovieID(ctx context.Context, movieID int64) ([]*entity.Review, error) {
	return r.filter(func(rv *entity.Review) bool { return rv.MovieID == movieID }), nil
}

func (r *memoryReviewRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Review, error) {
	return r.filter(func(rv *entity.Review) bool { return rv.UserID == userID }), nil
}

func (r *memoryReviewRepository) GetMovieReviewStats(ctx context.Context, movieID int64) (float64, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var sum float64
	var count int64
	for _, rv := range r.store.reviews {
		if rv.MovieID == movieID {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

func (r *memoryReviewRepository) filter(keep func(*entity.Review) bool) []*entity.Review {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reviews := make([]*entity.Review, 0)
	for _, rv := range r.store.reviews {
		if keep(rv) {
			out := *rv
			reviews = append(reviews, &out)
		}
	}
	return reviews
}

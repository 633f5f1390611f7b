package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"movie-reservation/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedScreening(t *testing.T, repo *Repository, movieID int64, date string, price, seats int) *entity.Screening {
	t.Helper()
	s := &entity.Screening{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		MovieID:        movieID,
		Date:           date,
		Time:           "20:00",
		Hall:           entity.HallA,
		Price:          price,
		AvailableSeats: seats,
	}
	require.NoError(t, repo.Screening.Create(context.Background(), s))
	return s
}

func newItem(userID, screeningID uuid.UUID) *entity.Reservation {
	return &entity.Reservation{
		BaseSimple:      entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:          userID,
		ScreeningID:     screeningID,
		ReservationDate: time.Now(),
		Status:          entity.ReservationStatusReserved,
	}
}

func TestMemoryCommit_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())
	userID := uuid.New()
	open := seedScreening(t, repo, 1, "2026-10-17", 400, 5)
	full := seedScreening(t, repo, 2, "2026-10-17", 500, 0)

	for _, s := range []*entity.Screening{open, full} {
		added, err := repo.Cart.AddItem(ctx, userID, newItem(userID, s.ID))
		require.NoError(t, err)
		require.True(t, added)
	}
	items, err := repo.Cart.Items(ctx, userID)
	require.NoError(t, err)

	err = repo.Reservation.Commit(ctx, userID, items, true)
	assert.ErrorIs(t, err, ErrSoldOut)

	got, err := repo.Screening.FindByID(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.AvailableSeats)

	reservations, err := repo.Reservation.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, reservations)

	left, err := repo.Cart.Items(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestMemoryCommit_UnknownScreening(t *testing.T) {
	repo := NewMemoryRepository(zap.NewNop())
	userID := uuid.New()

	err := repo.Reservation.Commit(context.Background(), userID, []*entity.Reservation{newItem(userID, uuid.New())}, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCommit_ConcurrentLastSeat(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())
	s := seedScreening(t, repo, 1, "2026-10-17", 400, 1)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := uuid.New()
			if err := repo.Reservation.Commit(ctx, userID, []*entity.Reservation{newItem(userID, s.ID)}, false); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	got, err := repo.Screening.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableSeats)
}

func TestMemoryTransition(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())
	userID := uuid.New()
	s := seedScreening(t, repo, 1, "2026-10-17", 400, 3)
	item := newItem(userID, s.ID)
	require.NoError(t, repo.Reservation.Commit(ctx, userID, []*entity.Reservation{item}, false))

	res, err := repo.Reservation.Transition(ctx, item.ID, entity.ReservationStatusReserved, entity.ReservationStatusCanceled, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCanceled, res.Status)

	got, err := repo.Screening.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.AvailableSeats)

	_, err = repo.Reservation.Transition(ctx, item.ID, entity.ReservationStatusReserved, entity.ReservationStatusWatched, 0)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = repo.Reservation.Transition(ctx, uuid.New(), entity.ReservationStatusReserved, entity.ReservationStatusWatched, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	review := &entity.Review{BaseSimple: entity.BaseSimple{ID: uuid.New()}, MovieID: 1, UserID: userID, Rating: 4}
	_, err = repo.Reservation.UpdateRating(ctx, item.ID, 4, nil, review)
	assert.ErrorIs(t, err, ErrConflict)

	reviews, err := repo.Review.FindByMovieID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, reviews, "rejected rating stores no review")
}

func TestMemoryReviewUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())
	userID := uuid.New()

	first, err := repo.Review.Upsert(ctx, &entity.Review{BaseSimple: entity.BaseSimple{ID: uuid.New()}, MovieID: 7, UserID: userID, Rating: 2})
	require.NoError(t, err)
	second, err := repo.Review.Upsert(ctx, &entity.Review{BaseSimple: entity.BaseSimple{ID: uuid.New()}, MovieID: 7, UserID: userID, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = repo.Review.Upsert(ctx, &entity.Review{BaseSimple: entity.BaseSimple{ID: uuid.New()}, MovieID: 7, UserID: uuid.New(), Rating: 3})
	require.NoError(t, err)

	avg, count, err := repo.Review.GetMovieReviewStats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 4.0, avg)

	avg, count, err = repo.Review.GetMovieReviewStats(ctx, 8)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, avg)
}

func TestMemoryScreeningFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())
	seedScreening(t, repo, 1, "2026-10-17", 400, 50)
	seedScreening(t, repo, 1, "2026-10-18", 750, 50)
	seedScreening(t, repo, 2, "2026-10-17", 550, 50)

	date := "2026-10-17"
	got, err := repo.Screening.Find(ctx, entity.ScreeningFilter{Date: &date})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	movieID := int64(1)
	minPrice := 500
	got, err = repo.Screening.Find(ctx, entity.ScreeningFilter{MovieID: &movieID, MinPrice: &minPrice})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 750, got[0].Price)

	assert.ErrorIs(t, repo.Screening.Delete(ctx, uuid.New()), ErrNotFound)
}

func TestMemoryCart_DuplicateIgnored(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())
	userID := uuid.New()
	s := seedScreening(t, repo, 1, "2026-10-17", 400, 50)

	added, err := repo.Cart.AddItem(ctx, userID, newItem(userID, s.ID))
	require.NoError(t, err)
	assert.True(t, added)
	added, err = repo.Cart.AddItem(ctx, userID, newItem(userID, s.ID))
	require.NoError(t, err)
	assert.False(t, added)

	removed, err := repo.Cart.RemoveItem(ctx, userID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestMemoryCommit_KeepsItemsAddedAfterRead(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())
	userID := uuid.New()
	first := seedScreening(t, repo, 1, "2026-10-17", 400, 5)
	late := seedScreening(t, repo, 2, "2026-10-17", 500, 5)

	_, err := repo.Cart.AddItem(ctx, userID, newItem(userID, first.ID))
	require.NoError(t, err)
	items, err := repo.Cart.Items(ctx, userID)
	require.NoError(t, err)

	_, err = repo.Cart.AddItem(ctx, userID, newItem(userID, late.ID))
	require.NoError(t, err)

	require.NoError(t, repo.Reservation.Commit(ctx, userID, items, true))

	left, err := repo.Cart.Items(ctx, userID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, late.ID, left[0].ScreeningID)

	got, err := repo.Screening.FindByID(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.AvailableSeats)
}

func TestMemoryCommit_ItemNoLongerInCart(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())
	userID := uuid.New()
	s := seedScreening(t, repo, 1, "2026-10-17", 400, 5)

	_, err := repo.Cart.AddItem(ctx, userID, newItem(userID, s.ID))
	require.NoError(t, err)
	items, err := repo.Cart.Items(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, repo.Reservation.Commit(ctx, userID, items, true))

	err = repo.Reservation.Commit(ctx, userID, items, true)
	assert.ErrorIs(t, err, ErrConflict)

	err = repo.Reservation.Commit(ctx, userID, items, false)
	assert.ErrorIs(t, err, ErrConflict, "same reservation id twice")

	got, err := repo.Screening.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.AvailableSeats)

	stored, err := repo.Reservation.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestMemoryUpdateRating_StoresReview(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())
	userID := uuid.New()
	s := seedScreening(t, repo, 9, "2026-10-17", 400, 5)
	item := newItem(userID, s.ID)
	require.NoError(t, repo.Reservation.Commit(ctx, userID, []*entity.Reservation{item}, false))
	_, err := repo.Reservation.Transition(ctx, item.ID, entity.ReservationStatusReserved, entity.ReservationStatusWatched, 0)
	require.NoError(t, err)

	text := "solid"
	review := &entity.Review{BaseSimple: entity.BaseSimple{ID: uuid.New()}, MovieID: 9, UserID: userID, Rating: 4, Comment: text}
	res, err := repo.Reservation.UpdateRating(ctx, item.ID, 4, &text, review)
	require.NoError(t, err)
	assert.Equal(t, 4.0, *res.Rating)

	reviews, err := repo.Review.FindByMovieID(ctx, 9)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "solid", reviews[0].Comment)
}

func TestMemoryTransition_SeatsNeverNegative(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(zap.NewNop())
	userID := uuid.New()
	s := seedScreening(t, repo, 1, "2026-10-17", 400, 1)
	item := newItem(userID, s.ID)
	require.NoError(t, repo.Reservation.Commit(ctx, userID, []*entity.Reservation{item}, false))

	_, err := repo.Reservation.Transition(ctx, item.ID, entity.ReservationStatusReserved, entity.ReservationStatusWatched, -1)
	assert.ErrorIs(t, err, ErrSoldOut)

	res, err := repo.Reservation.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusReserved, res.Status)
}

package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/data/repository"
	"movie-reservation/pkg/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

func TestCartScenario_AddRemoveCheckout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.svc.Reservation
	user := env.addUser(t, "Ana", "Kovac")

	a := env.addScreening(t, 1, 450, 50)
	b := env.addScreening(t, 2, 650, 10)

	cart, err := svc.AddToCart(ctx, user, a.ID)
	require.NoError(t, err)
	require.NotNil(t, cart)
	cart, err = svc.AddToCart(ctx, user, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1100, cart.TotalPrice)
	require.Len(t, cart.Items, 2)

	var itemA uuid.UUID
	for _, it := range cart.Items {
		if it.ScreeningID == a.ID {
			itemA = it.ID
		}
	}
	cart, err = svc.RemoveFromCart(ctx, user, itemA)
	require.NoError(t, err)
	assert.Equal(t, 650, cart.TotalPrice)
	assert.Equal(t, 50, env.seats(t, a.ID))

	reservations, err := svc.Checkout(ctx, user)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, b.ID, reservations[0].ScreeningID)
	assert.Equal(t, entity.ReservationStatusReserved, reservations[0].Status)
	assert.Equal(t, 9, env.seats(t, b.ID))

	cart, err = svc.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)

	stored, err := svc.GetUserReservations(ctx, user)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entity.ReservationStatusReserved, stored[0].Status)
	require.NotNil(t, stored[0].Screening)
	assert.Equal(t, 650, stored[0].Screening.Price)

	assert.Contains(t, env.events.kinds(), event.ReservationCreated)
}

func TestAddToCart_EdgeCases(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.svc.Reservation
	user := env.addUser(t, "Ivo", "Ilic")

	cart, err := svc.AddToCart(ctx, user, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, cart, "unknown screening")

	soldOut := env.addScreening(t, 1, 400, 0)
	cart, err = svc.AddToCart(ctx, user, soldOut.ID)
	require.NoError(t, err)
	assert.Nil(t, cart, "sold out screening")

	s := env.addScreening(t, 1, 400, 5)
	_, err = svc.AddToCart(ctx, user, s.ID)
	require.NoError(t, err)
	cart, err = svc.AddToCart(ctx, user, s.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "same screening is not added twice")
	assert.Equal(t, 400, cart.TotalPrice)
	assert.Equal(t, 5, env.seats(t, s.ID))

	cart, err = svc.RemoveFromCart(ctx, user, uuid.New())
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	require.NoError(t, svc.ClearCart(ctx, user))
	cart, err = svc.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartTotalTracksScreeningPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.addUser(t, "Mia", "Maric")
	s := env.addScreening(t, 1, 400, 5)

	_, err := env.svc.Reservation.AddToCart(ctx, user, s.ID)
	require.NoError(t, err)

	s.Price = 550
	require.NoError(t, env.svc.Screening.UpdateScreening(ctx, s))

	cart, err := env.svc.Reservation.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 550, cart.TotalPrice)
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	reservations, err := env.svc.Reservation.Checkout(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, reservations)
	assert.Empty(t, reservations)
}

func TestCheckout_AllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.svc.Reservation
	user := env.addUser(t, "Luka", "Lukic")
	other := env.addUser(t, "Sara", "Saric")

	ok := env.addScreening(t, 1, 400, 3)
	last := env.addScreening(t, 2, 500, 1)

	_, err := svc.AddToCart(ctx, user, ok.ID)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, user, last.ID)
	require.NoError(t, err)

	// someone else takes the last seat first
	res, err := svc.Reserve(ctx, other, last.ID)
	require.NoError(t, err)
	require.NotNil(t, res)

	_, err = svc.Checkout(ctx, user)
	require.ErrorIs(t, err, ErrSeatsUnavailable)

	assert.Equal(t, 3, env.seats(t, ok.ID), "no partial decrement")
	assert.Equal(t, 0, env.seats(t, last.ID))

	cart, err := svc.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2, "cart kept after failed checkout")

	stored, err := svc.GetUserReservations(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestReserve_SoldOutReturnsNil(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.addUser(t, "Ena", "Enic")
	s := env.addScreening(t, 1, 400, 1)

	res, err := env.svc.Reservation.Reserve(ctx, user, s.ID)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 0, env.seats(t, s.ID))

	res, err = env.svc.Reservation.Reserve(ctx, user, s.ID)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 0, env.seats(t, s.ID))
}

func TestCancelReservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.svc.Reservation
	user := env.addUser(t, "Pero", "Peric")
	s := env.addScreening(t, 1, 400, 10)

	res, err := svc.Reserve(ctx, user, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, env.seats(t, s.ID))

	canceled, err := svc.CancelReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCanceled, canceled.Status)
	assert.Equal(t, 10, env.seats(t, s.ID))

	_, err = svc.CancelReservation(ctx, res.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 10, env.seats(t, s.ID), "second cancel leaves seats alone")

	_, err = svc.MarkAsWatched(ctx, res.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	missing, err := svc.CancelReservation(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCancelWatchedReservationFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.svc.Reservation
	user := env.addUser(t, "Tea", "Tic")
	s := env.addScreening(t, 1, 400, 10)

	res, err := svc.Reserve(ctx, user, s.ID)
	require.NoError(t, err)
	watched, err := svc.MarkAsWatched(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusWatched, watched.Status)
	assert.Equal(t, 9, env.seats(t, s.ID))

	_, err = svc.CancelReservation(ctx, res.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 9, env.seats(t, s.ID))

	_, err = svc.MarkAsWatched(ctx, res.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRateReservation_UpsertsSingleReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.svc.Reservation
	user := env.addUser(t, "Marko", "Markovic")
	s := env.addScreening(t, 2, 400, 10)

	res, err := svc.Reserve(ctx, user, s.ID)
	require.NoError(t, err)

	_, err = svc.RateReservation(ctx, res.ID, 4, nil)
	require.ErrorIs(t, err, ErrInvalidTransition, "reserved cannot be rated")

	_, err = svc.MarkAsWatched(ctx, res.ID)
	require.NoError(t, err)

	rated, err := svc.RateReservation(ctx, res.ID, 3, ptr("ok"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, *rated.Rating)

	rated, err = svc.RateReservation(ctx, res.ID, 5, ptr("great"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, *rated.Rating)
	assert.Equal(t, "great", *rated.ReviewText)
	assert.Equal(t, entity.ReservationStatusWatched, rated.Status)

	reviews, err := env.repo.Review.FindByMovieID(ctx, 2)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5.0, reviews[0].Rating)
	assert.Equal(t, "great", reviews[0].Comment)
	assert.Equal(t, "Marko Markovic", reviews[0].UserName)

	_, err = svc.RateReservation(ctx, res.ID, 6, nil)
	require.ErrorIs(t, err, ErrValidation)

	missing, err := svc.RateReservation(ctx, uuid.New(), 4, nil)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSeatsNeverNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.svc.Reservation
	s := env.addScreening(t, 1, 400, 2)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		user := env.addUser(t, "U", "Ser")
		res, err := svc.Reserve(ctx, user, s.ID)
		require.NoError(t, err)
		if res != nil {
			ids = append(ids, res.ID)
		}
		assert.GreaterOrEqual(t, env.seats(t, s.ID), 0)
	}
	assert.Len(t, ids, 2)

	for _, id := range ids {
		_, err := svc.CancelReservation(ctx, id)
		require.NoError(t, err)
		_, _ = svc.CancelReservation(ctx, id)
	}
	assert.Equal(t, 2, env.seats(t, s.ID))
}

func TestGetReservationByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.addUser(t, "Nina", "Nikolic")
	s := env.addScreening(t, 1, 400, 10)

	res, err := env.svc.Reservation.Reserve(ctx, user, s.ID)
	require.NoError(t, err)

	got, err := env.svc.Reservation.GetReservationByID(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Screening)
	assert.Equal(t, s.ID, got.Screening.ID)

	got, err = env.svc.Reservation.GetReservationByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

// barrierCart holds the first n Items callers until all of them have read
// the cart.
type barrierCart struct {
	repository.CartRepository
	n       int32
	calls   atomic.Int32
	arrived sync.WaitGroup
}

func newBarrierCart(inner repository.CartRepository, n int) *barrierCart {
	b := &barrierCart{CartRepository: inner, n: int32(n)}
	b.arrived.Add(n)
	return b
}

func (b *barrierCart) Items(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error) {
	items, err := b.CartRepository.Items(ctx, userID)
	if b.calls.Add(1) <= b.n {
		b.arrived.Done()
		b.arrived.Wait()
	}
	return items, err
}

func TestCheckout_ConcurrentSameCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.addUser(t, "Iva", "Ivic")
	s := env.addScreening(t, 1, 400, 50)

	_, err := env.svc.Reservation.AddToCart(ctx, user, s.ID)
	require.NoError(t, err)

	repo := *env.repo
	repo.Cart = newBarrierCart(env.repo.Cart, 2)
	svc := NewReservationService(&repo, env.events, zap.NewNop())

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Checkout(ctx, user)
		}()
	}
	wg.Wait()

	var succeeded, changed int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrCartChanged):
			changed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, changed)
	assert.Equal(t, 49, env.seats(t, s.ID), "one seat per committed item")

	stored, err := env.svc.Reservation.GetUserReservations(ctx, user)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	cart, err := env.svc.Reservation.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

// racingScreenings runs race once, right after the first lookup.
type racingScreenings struct {
	repository.ScreeningRepository
	once sync.Once
	race func()
}

func (r *racingScreenings) FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error) {
	s, err := r.ScreeningRepository.FindByID(ctx, id)
	r.once.Do(r.race)
	return s, err
}

func TestReserve_ReturnsCurrentSeatCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.addUser(t, "Dora", "Doric")
	s := env.addScreening(t, 1, 400, 10)

	repo := *env.repo
	repo.Screening = &racingScreenings{
		ScreeningRepository: env.repo.Screening,
		race: func() {
			other := uuid.New()
			booking := &entity.Reservation{
				BaseSimple:  entity.BaseSimple{ID: uuid.New()},
				ScreeningID: s.ID,
				UserID:      other,
				Status:      entity.ReservationStatusReserved,
			}
			require.NoError(t, env.repo.Reservation.Commit(ctx, other, []*entity.Reservation{booking}, false))
		},
	}
	svc := NewReservationService(&repo, env.events, zap.NewNop())

	res, err := svc.Reserve(ctx, user, s.ID)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, res.Screening)
	assert.Equal(t, 8, res.Screening.AvailableSeats)
	assert.Equal(t, 8, env.seats(t, s.ID))
}

type failingUsers struct {
	repository.UserRepository
}

func (failingUsers) FindByID(context.Context, uuid.UUID) (*entity.User, error) {
	return nil, errors.New("users unavailable")
}

func TestRateReservation_ReviewerLookupFailsLeavesNoRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.addUser(t, "Lana", "Lanic")
	s := env.addScreening(t, 3, 400, 10)

	res, err := env.svc.Reservation.Reserve(ctx, user, s.ID)
	require.NoError(t, err)
	_, err = env.svc.Reservation.MarkAsWatched(ctx, res.ID)
	require.NoError(t, err)

	repo := *env.repo
	repo.User = failingUsers{env.repo.User}
	svc := NewReservationService(&repo, env.events, zap.NewNop())

	_, err = svc.RateReservation(ctx, res.ID, 4, ptr("fine"))
	require.Error(t, err)

	stored, err := env.repo.Reservation.FindByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Rating)
	assert.Nil(t, stored.ReviewText)

	reviews, err := env.repo.Review.FindByMovieID(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.NotContains(t, env.events.kinds(), event.ReservationRated)
}

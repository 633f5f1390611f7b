package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/data/repository"
	"movie-reservation/pkg/event"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService owns carts and the reservation lifecycle:
// reserved -> canceled, reserved -> watched, watched -> watched (rating).
type ReservationService interface {
	// AddToCart returns nil when the screening is missing or sold out.
	AddToCart(ctx context.Context, userID, screeningID uuid.UUID) (*entity.Cart, error)
	RemoveFromCart(ctx context.Context, userID, reservationID uuid.UUID) (*entity.Cart, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
	// Checkout commits every cart item or none of them. A concurrent checkout
	// of the same cart fails with ErrCartChanged.
	Checkout(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error)
	// Reserve books a single seat directly, bypassing the cart.
	Reserve(ctx context.Context, userID, screeningID uuid.UUID) (*entity.Reservation, error)

	CancelReservation(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	MarkAsWatched(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	RateReservation(ctx context.Context, id uuid.UUID, rating float64, reviewText *string) (*entity.Reservation, error)

	GetUserReservations(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error)
	GetReservationByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
}

type reservationService struct {
	repo      *repository.Repository
	publisher event.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewReservationService(repo *repository.Repository, publisher event.Publisher, log *zap.Logger) ReservationService {
	if publisher == nil {
		publisher = event.Nop{}
	}
	return &reservationService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "reservation")),
		now:       time.Now,
	}
}

// ==================== CART ====================

func (s *reservationService) AddToCart(ctx context.Context, userID, screeningID uuid.UUID) (*entity.Cart, error) {
	screening, err := s.repo.Screening.FindByID(ctx, screeningID)
	if err != nil {
		s.log.Error("Failed to find screening", zap.Error(err), zap.String("screening_id", screeningID.String()))
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	if screening == nil || screening.SoldOut() {
		s.log.Debug("Screening not available for cart",
			zap.String("screening_id", screeningID.String()),
			zap.Bool("exists", screening != nil),
		)
		return nil, nil
	}

	now := s.now()
	item := &entity.Reservation{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		ScreeningID:     screeningID,
		UserID:          userID,
		ReservationDate: now,
		Status:          entity.ReservationStatusReserved,
	}

	added, err := s.repo.Cart.AddItem(ctx, userID, item)
	if err != nil {
		s.log.Error("Failed to add cart item", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	if added {
		publish(ctx, s.publisher, s.log, event.Event{
			Kind:          event.CartChanged,
			UserID:        userID,
			ReservationID: item.ID,
			ScreeningID:   screeningID,
			At:            now,
		})
	}

	return s.GetCart(ctx, userID)
}

func (s *reservationService) RemoveFromCart(ctx context.Context, userID, reservationID uuid.UUID) (*entity.Cart, error) {
	removed, err := s.repo.Cart.RemoveItem(ctx, userID, reservationID)
	if err != nil {
		s.log.Error("Failed to remove cart item", zap.Error(err), zap.String("reservation_id", reservationID.String()))
		return nil, fmt.Errorf("remove from cart: %w", err)
	}
	if removed != nil {
		publish(ctx, s.publisher, s.log, event.Event{
			Kind:          event.CartChanged,
			UserID:        userID,
			ReservationID: reservationID,
			At:            s.now(),
		})
	}
	return s.GetCart(ctx, userID)
}

// GetCart attaches current screenings to each item and recomputes the total.
func (s *reservationService) GetCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	items, err := s.repo.Cart.Items(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load cart", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("get cart: %w", err)
	}

	cart := &entity.Cart{UserID: userID, Items: items}
	for _, it := range items {
		screening, err := s.repo.Screening.FindByID(ctx, it.ScreeningID)
		if err != nil {
			return nil, fmt.Errorf("get cart screening %s: %w", it.ScreeningID, err)
		}
		it.Screening = screening
		if screening != nil {
			cart.TotalPrice += screening.Price
		}
	}
	return cart, nil
}

func (s *reservationService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Cart.Clear(ctx, userID); err != nil {
		s.log.Error("Failed to clear cart", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("clear cart: %w", err)
	}
	publish(ctx, s.publisher, s.log, event.Event{Kind: event.CartChanged, UserID: userID, At: s.now()})
	return nil
}

func (s *reservationService) Checkout(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error) {
	items, err := s.repo.Cart.Items(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load cart for checkout", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("checkout: %w", err)
	}
	if len(items) == 0 {
		return []*entity.Reservation{}, nil
	}

	now := s.now()
	for _, it := range items {
		it.Status = entity.ReservationStatusReserved
		it.ReservationDate = now
	}

	if err := s.repo.Reservation.Commit(ctx, userID, items, true); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.log.Warn("Checkout rejected, cart changed", zap.Error(err), zap.String("user_id", userID.String()))
			return nil, fmt.Errorf("checkout: %w: %v", ErrCartChanged, err)
		}
		if errors.Is(err, repository.ErrSoldOut) || errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("Checkout rejected", zap.Error(err), zap.String("user_id", userID.String()))
			return nil, fmt.Errorf("checkout: %w: %v", ErrSeatsUnavailable, err)
		}
		s.log.Error("Failed to commit checkout", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("checkout: %w", err)
	}

	for _, it := range items {
		if it.Screening, err = s.repo.Screening.FindByID(ctx, it.ScreeningID); err != nil {
			s.log.Warn("Failed to attach screening after checkout", zap.Error(err))
		}
		publish(ctx, s.publisher, s.log, event.Event{
			Kind:          event.ReservationCreated,
			UserID:        userID,
			ReservationID: it.ID,
			ScreeningID:   it.ScreeningID,
			At:            now,
		})
	}
	publish(ctx, s.publisher, s.log, event.Event{Kind: event.CartChanged, UserID: userID, At: now})

	s.log.Info("Checkout completed",
		zap.String("user_id", userID.String()),
		zap.Int("reservations", len(items)),
	)
	return items, nil
}

func (s *reservationService) Reserve(ctx context.Context, userID, screeningID uuid.UUID) (*entity.Reservation, error) {
	screening, err := s.repo.Screening.FindByID(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("reserve: %w", err)
	}
	if screening == nil || screening.SoldOut() {
		return nil, nil
	}

	now := s.now()
	res := &entity.Reservation{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		ScreeningID:     screeningID,
		UserID:          userID,
		ReservationDate: now,
		Status:          entity.ReservationStatusReserved,
	}

	err = s.repo.Reservation.Commit(ctx, userID, []*entity.Reservation{res}, false)
	if errors.Is(err, repository.ErrSoldOut) || errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to reserve", zap.Error(err), zap.String("screening_id", screeningID.String()))
		return nil, fmt.Errorf("reserve: %w", err)
	}

	s.attachScreening(ctx, res)

	s.log.Info("Reservation created",
		zap.String("reservation_id", res.ID.String()),
		zap.String("screening_id", screeningID.String()),
	)
	publish(ctx, s.publisher, s.log, event.Event{
		Kind:          event.ReservationCreated,
		UserID:        userID,
		ReservationID: res.ID,
		ScreeningID:   screeningID,
		At:            now,
	})
	return res, nil
}

// ==================== LIFECYCLE ====================

func (s *reservationService) CancelReservation(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return s.transition(ctx, id, entity.ReservationStatusCanceled, 1, event.ReservationCanceled)
}

func (s *reservationService) MarkAsWatched(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return s.transition(ctx, id, entity.ReservationStatusWatched, 0, event.ReservationWatched)
}

func (s *reservationService) transition(
	ctx context.Context,
	id uuid.UUID,
	to entity.ReservationStatus,
	seatDelta int,
	kind event.Kind,
) (*entity.Reservation, error) {
	current, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find reservation %s: %w", id, err)
	}
	if current == nil {
		return nil, nil
	}
	if current.Status != entity.ReservationStatusReserved || !current.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}

	updated, err := s.repo.Reservation.Transition(ctx, id, entity.ReservationStatusReserved, to, seatDelta)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, nil
	case errors.Is(err, repository.ErrConflict):
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	case err != nil:
		s.log.Error("Failed to change reservation status",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.String("to", string(to)),
		)
		return nil, fmt.Errorf("change reservation %s to %s: %w", id, to, err)
	}

	s.attachScreening(ctx, updated)
	s.log.Info("Reservation status changed",
		zap.String("reservation_id", id.String()),
		zap.String("status", string(to)),
	)
	publish(ctx, s.publisher, s.log, event.Event{
		Kind:          kind,
		UserID:        updated.UserID,
		ReservationID: id,
		ScreeningID:   updated.ScreeningID,
		At:            s.now(),
	})
	return updated, nil
}

// RateReservation stores the rating on a watched reservation and upserts the
// user's review of the movie in the same write.
func (s *reservationService) RateReservation(ctx context.Context, id uuid.UUID, rating float64, reviewText *string) (*entity.Reservation, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	current, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find reservation %s: %w", id, err)
	}
	if current == nil {
		return nil, nil
	}
	if current.Status != entity.ReservationStatusWatched {
		return nil, fmt.Errorf("%w: cannot rate a %s reservation", ErrInvalidTransition, current.Status)
	}

	s.attachScreening(ctx, current)
	review, err := s.buildReview(ctx, current, rating, reviewText)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Reservation.UpdateRating(ctx, id, rating, reviewText, review)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, nil
	case errors.Is(err, repository.ErrConflict):
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	case err != nil:
		s.log.Error("Failed to rate reservation", zap.Error(err), zap.String("reservation_id", id.String()))
		return nil, fmt.Errorf("rate reservation %s: %w", id, err)
	}
	updated.Screening = current.Screening

	publish(ctx, s.publisher, s.log, event.Event{
		Kind:          event.ReservationRated,
		UserID:        updated.UserID,
		ReservationID: id,
		ScreeningID:   updated.ScreeningID,
		At:            s.now(),
	})
	return updated, nil
}

// buildReview returns nil when the screening is gone and the movie is unknown.
func (s *reservationService) buildReview(ctx context.Context, res *entity.Reservation, rating float64, reviewText *string) (*entity.Review, error) {
	if res.Screening == nil {
		s.log.Warn("Screening gone, review not recorded", zap.String("reservation_id", res.ID.String()))
		return nil, nil
	}

	user, err := s.repo.User.FindByID(ctx, res.UserID)
	if err != nil {
		s.log.Error("Failed to find reviewer", zap.Error(err), zap.String("user_id", res.UserID.String()))
		return nil, fmt.Errorf("find reviewer %s: %w", res.UserID, err)
	}
	userName := ""
	if user != nil {
		userName = user.FullName()
	}

	comment := ""
	if reviewText != nil {
		comment = *reviewText
	}

	return &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		MovieID:  res.Screening.MovieID,
		UserID:   res.UserID,
		UserName: userName,
		Rating:   rating,
		Comment:  comment,
	}, nil
}

// ==================== QUERIES ====================

func (s *reservationService) GetUserReservations(ctx context.Context, userID uuid.UUID) ([]*entity.Reservation, error) {
	reservations, err := s.repo.Reservation.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to get user reservations", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("get user reservations: %w", err)
	}
	for _, r := range reservations {
		s.attachScreening(ctx, r)
	}
	return reservations, nil
}

func (s *reservationService) GetReservationByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	res, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation %s: %w", id, err)
	}
	if res == nil {
		return nil, nil
	}
	s.attachScreening(ctx, res)
	return res, nil
}

func (s *reservationService) attachScreening(ctx context.Context, r *entity.Reservation) {
	screening, err := s.repo.Screening.FindByID(ctx, r.ScreeningID)
	if err != nil {
		s.log.Warn("Failed to attach screening", zap.Error(err), zap.String("screening_id", r.ScreeningID.String()))
		return
	}
	r.Screening = screening
}

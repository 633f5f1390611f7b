package repository

import (
	"errors"

	"movie-reservation/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by mutations whose target row does not exist.
	// Lookups return (nil, nil) instead.
	ErrNotFound = errors.New("not found")
	// ErrSoldOut is returned when a seat decrement would go below zero.
	ErrSoldOut = errors.New("sold out")
	// ErrConflict is returned when a compare-and-set on reservation status fails.
	ErrConflict = errors.New("status conflict")
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Screening   ScreeningRepository
	Reservation ReservationRepository
	Cart        CartRepository
	Review      ReviewRepository
}

// NewRepository builds the Postgres backed repositories.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Screening:   NewScreeningRepository(db, log),
		Reservation: NewReservationRepository(db, log),
		Cart:        NewCartRepository(db, log),
		Review:      NewReviewRepository(db, log),
	}
}

// NewMemoryRepository builds repositories sharing one in-process store.
// All state is lost on restart.
func NewMemoryRepository(log *zap.Logger) *Repository {
	store := newMemoryStore()
	return &Repository{
		User:        &memoryUserRepository{store: store},
		Session:     &memorySessionRepository{store: store},
		Screening:   &memoryScreeningRepository{store: store, log: log.With(zap.String("repository", "screening"))},
		Reservation: &memoryReservationRepository{store: store, log: log.With(zap.String("repository", "reservation"))},
		Cart:        &memoryCartRepository{store: store},
		Review:      &memoryReviewRepository{store: store},
	}
}

package repository

import (
	"sync"

	"movie-reservation/internal/data/entity"

	"github.com/google/uuid"
)

// memoryStore is the in-process database. A single lock guards every
// collection so multi-entity mutations (checkout, cancel) are atomic.
type memoryStore struct {
	mu sync.RWMutex

	users    map[uuid.UUID]*entity.User
	sessions map[string]*entity.Session

	screenings     map[uuid.UUID]*entity.Screening
	screeningOrder []uuid.UUID

	reservations     map[uuid.UUID]*entity.Reservation
	reservationOrder []uuid.UUID

	carts   map[uuid.UUID][]*entity.Reservation
	reviews []*entity.Review
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        make(map[uuid.UUID]*entity.User),
		sessions:     make(map[string]*entity.Session),
		screenings:   make(map[uuid.UUID]*entity.Screening),
		reservations: make(map[uuid.UUID]*entity.Reservation),
		carts:        make(map[uuid.UUID][]*entity.Reservation),
	}
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

package repository

import (
	"context"
	"fmt"
	"time"

	"movie-reservation/internal/data/entity"
)

type memorySessionRepository struct {
	store *memoryStore
}

func (r *memorySessionRepository) Create(ctx context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s := *session
	r.store.sessions[session.Token.String()] = &s
	return nil
}

func (r *memorySessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.sessions[token]
	if !ok || !s.Valid(time.Now()) {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (r *memorySessionRepository) Revoke(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.sessions[token]
	if !ok || s.RevokedAt != nil {
		return fmt.Errorf("session: %w", ErrNotFound)
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

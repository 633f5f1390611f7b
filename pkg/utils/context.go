package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	identityKey contextKey = iota
	tokenKey
)

// identity is the authenticated caller attached by the auth middleware.
type identity struct {
	userID uuid.UUID
	role   string
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	return context.WithValue(ctx, identityKey, identity{userID: userID, role: role})
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(identityKey).(identity)
	if !ok || id.userID == uuid.Nil {
		return uuid.Nil, false
	}
	return id.userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(identity)
	return id.role, ok
}

// SetTokenContext keeps the raw bearer token so logout can revoke it.
func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

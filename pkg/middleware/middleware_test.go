package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/data/repository"
	"movie-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func serve(h http.Handler, method, auth, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if remote != "" {
		req.RemoteAddr = remote
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seedSession(t *testing.T, repo *repository.Repository, role entity.UserRole) string {
	t.Helper()
	ctx := context.Background()
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Now()},
		Username: "user-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, repo.User.Create(ctx, user))

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     user.ID,
		Token:      uuid.New(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Session.Create(ctx, session))
	return session.Token.String()
}

func TestAuthSession(t *testing.T) {
	repo := repository.NewMemoryRepository(zap.NewNop())
	token := seedSession(t, repo, entity.RoleCustomer)

	var gotToken string
	h := AuthSession(repo.Session, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := utils.GetUserIDFromContext(r.Context())
		assert.True(t, ok)
		gotToken, _ = utils.GetTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "Bearer "+uuid.NewString(), "").Code)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "Bearer "+token, "").Code)
	assert.Equal(t, token, gotToken)
}

func TestAdmin(t *testing.T) {
	repo := repository.NewMemoryRepository(zap.NewNop())
	customer := seedSession(t, repo, entity.RoleCustomer)
	admin := seedSession(t, repo, entity.RoleAdmin)

	h := AuthSession(repo.Session, zap.NewNop())(Admin(repo.User, zap.NewNop())(http.HandlerFunc(okHandler)))

	assert.Equal(t, http.StatusForbidden, serve(h, http.MethodPost, "Bearer "+customer, "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, "Bearer "+admin, "").Code)
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS()(http.HandlerFunc(okHandler))

	rec := serve(h, http.MethodOptions, "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "", "").Code)
}

func TestRateLimitIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := RateLimitIP(ctx, 1, 2, zap.NewNop())(http.HandlerFunc(okHandler))

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "", "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "", "10.0.0.1:1234").Code)
	rec := serve(h, http.MethodGet, "", "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "", "10.0.0.2:1234").Code)
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := serve(h, http.MethodGet, "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

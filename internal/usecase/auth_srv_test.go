package usecase

import (
	"context"
	"testing"

	"movie-reservation/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerReq() *request.RegisterRequest {
	return &request.RegisterRequest{
		FirstName:      "Ana",
		LastName:       "Kovac",
		Username:       "anak",
		Email:          "Ana@Example.com",
		Password:       "secret123",
		FavoriteGenres: []request.GenreItem{{ID: 1, Name: "Drama"}},
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	auth, err := env.svc.Auth.Register(ctx, registerReq())
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "ana@example.com", auth.Email)
	assert.Equal(t, "Ana Kovac", auth.FullName)

	_, err = env.svc.Auth.Register(ctx, registerReq())
	require.ErrorIs(t, err, ErrAlreadyExists)

	byEmail, err := env.svc.Auth.Login(ctx, &request.LoginRequest{Username: "ANA@example.com", Password: "secret123"})
	require.NoError(t, err)
	byName, err := env.svc.Auth.Login(ctx, &request.LoginRequest{Username: "anak", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, byEmail.UserID, byName.UserID)

	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Username: "anak", Password: "wrong-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Username: "nobody", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := env.repo.Session.FindValidSession(ctx, byName.Token)
	require.NoError(t, err)
	require.NotNil(t, session)

	require.NoError(t, env.svc.Auth.Logout(ctx, byName.Token))
	session, err = env.repo.Session.FindValidSession(ctx, byName.Token)
	require.NoError(t, err)
	assert.Nil(t, session)

	require.ErrorIs(t, env.svc.Auth.Logout(ctx, "not-a-token"), ErrValidation)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	req := registerReq()
	req.Email = "broken"

	_, err := env.svc.Auth.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)
}

func TestProfileUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	auth, err := env.svc.Auth.Register(ctx, registerReq())
	require.NoError(t, err)
	id := uuid.MustParse(auth.UserID)

	profile, err := env.svc.User.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.FirstName)
	assert.Len(t, profile.FavoriteGenres, 1)

	address := "Main 1"
	newPass := "another-pass"
	profile, err = env.svc.User.UpdateProfile(ctx, id, &request.UpdateProfileRequest{
		Address:  &address,
		Password: &newPass,
	})
	require.NoError(t, err)
	require.NotNil(t, profile.Address)
	assert.Equal(t, "Main 1", *profile.Address)

	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Username: "anak", Password: newPass})
	require.NoError(t, err)

	_, err = env.svc.User.GetProfile(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

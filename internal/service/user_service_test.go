package service

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/pkg/security"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, env *testEnv) *dto.AuthResult {
	t.Helper()
	res, err := env.users.Register(context.Background(), &dto.RegisterDTO{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     " Ada@Example.com ",
		Username:  "ada",
		Password:  "secret123",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res := register(t, env)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, "user", res.User.Role)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.Refresh)

	claims, err := security.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.Hex(), claims.UserID)

	_, err = env.users.Register(ctx, &dto.RegisterDTO{FirstName: "A", LastName: "B", Email: "ada@example.com", Username: "other", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserExist)

	logged, err := env.users.Login(ctx, &dto.LoginDTO{Email: "ADA@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, logged.User.ID)

	_, err = env.users.Login(ctx, &dto.LoginDTO{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.users.Login(ctx, &dto.LoginDTO{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	env := newTestEnv(t)
	res := register(t, env)

	require.NoError(t, env.users.Logout(context.Background(), res.Token))
	signature, err := security.ExtractSignature(res.Token)
	require.NoError(t, err)
	assert.True(t, env.redis.Exists(consts.TokenBlacklistKey+signature))
	assert.Positive(t, env.redis.TTL(consts.TokenBlacklistKey+signature))

	assert.NoError(t, env.users.Logout(context.Background(), "garbage"))
	assert.NoError(t, env.users.Logout(context.Background(), ""))
}

func TestUpdatePasswordInvalidatesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res := register(t, env)

	refreshed, err := env.users.Refresh(ctx, res.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)

	err = env.users.UpdatePassword(ctx, res.User.ID, &dto.ChangePasswordDTO{CurrentPassword: "nope", NewPassword: "another1"})
	assert.ErrorIs(t, err, ErrPasswordIncorrect)

	require.NoError(t, env.users.UpdatePassword(ctx, res.User.ID, &dto.ChangePasswordDTO{CurrentPassword: "secret123", NewPassword: "another1"}))
	_, err = env.users.Refresh(ctx, res.Refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = env.users.Refresh(ctx, res.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = env.users.Login(ctx, &dto.LoginDTO{Email: "ada@example.com", Password: "another1"})
	assert.NoError(t, err)
}

func TestUpdateDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	res := register(t, env)
	other := env.user(t, "grace")

	updated, err := env.users.UpdateDetails(ctx, res.User.ID, &dto.UpdateDetailsDTO{FirstName: "Augusta", LastName: "King", Email: "AUGUSTA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "augusta@example.com", updated.Email)
	assert.Equal(t, "Augusta", updated.FirstName)

	_, err = env.users.UpdateDetails(ctx, res.User.ID, &dto.UpdateDetailsDTO{FirstName: "A", LastName: "K", Email: other.Email})
	assert.ErrorIs(t, err, ErrUserExist)

	info, err := env.users.GetUserInfo(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", info.Username)
}

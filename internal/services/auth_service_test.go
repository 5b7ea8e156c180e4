// internal/services/auth_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
	"github.com/javajoker/brewhouse-backend/internal/config"
	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository/memory"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	return NewAuthService(memory.NewStore(), &config.Config{JWT: config.JWTConfig{AccessTokenTTL: 2}})
}

func TestRegisterAndLogin(t *testing.T) {
	service := newAuthService(t)
	ctx := context.Background()

	resp, err := service.Register(ctx, &RegisterRequest{
		Username:    "latte_lover",
		Email:       "Latte@Example.com",
		Password:    "steamedmilk",
		DisplayName: "Latte Lover",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleCustomer, resp.User.Role)
	assert.Equal(t, "latte@example.com", resp.User.Email)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 7200, resp.ExpiresIn)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)
	assert.Equal(t, "customer", claims.Role)

	login, err := service.Login(ctx, &LoginRequest{Email: "latte@example.com", Password: "steamedmilk"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = service.Login(ctx, &LoginRequest{Email: "latte@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = service.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "steamedmilk"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	profile, err := service.GetProfile(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Latte Lover", profile.Name())
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	service := newAuthService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, &RegisterRequest{Username: "first", Email: "first@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = service.Register(ctx, &RegisterRequest{Username: "second", Email: "FIRST@example.com", Password: "password1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = service.Register(ctx, &RegisterRequest{Username: "first", Email: "other@example.com", Password: "password1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = service.Register(ctx, &RegisterRequest{Username: "x", Email: "x@example.com", Password: "password1"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = service.Register(ctx, &RegisterRequest{Username: "shortpw", Email: "s@example.com", Password: "short"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

package tests

// Auth service tests: login, token refresh and user lifecycle.

import (
	"context"
	"testing"

	"github.com/wali1264/ketabestan2/internal/config"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthEnv() service.AuthService {
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    72,
	}
	return service.NewAuthService(newStubUserRepo(), cfg)
}

func TestLoginIssuesTokens(t *testing.T) {
	svc := newAuthEnv()

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "wali", Name: "Wali", Password: "s3cret-pass", Role: "admin",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "wali", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "admin", resp.User.Role)

	// The access token must carry the signed identity claims.
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "wali", claims["username"])
	assert.Equal(t, "admin", claims["role"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newAuthEnv()

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "cashier1", Name: "Cashier", Password: "right-pass", Role: "cashier",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "cashier1", Password: "wrong-pass",
	})
	require.EqualError(t, err, "invalid credentials")

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "no-such-user", Password: "whatever",
	})
	require.EqualError(t, err, "invalid credentials")
}

func TestDeactivatedUserCannotLogIn(t *testing.T) {
	svc := newAuthEnv()

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "former", Name: "Former Employee", Password: "pass-1234", Role: "cashier",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(context.Background(), uuid.MustParse(created.ID)))
	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "former", Password: "pass-1234",
	})
	require.EqualError(t, err, "invalid credentials")

	require.NoError(t, svc.ReactivateUser(context.Background(), uuid.MustParse(created.ID)))
	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "former", Password: "pass-1234",
	})
	require.NoError(t, err)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc := newAuthEnv()

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "manager1", Name: "Manager", Password: "pass-1234", Role: "manager",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "manager1", Password: "pass-1234",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "manager1", refreshed.User.Username)

	_, err = svc.Refresh(context.Background(), "not-a-token")
	require.EqualError(t, err, "refresh token invalid or expired")
}

func TestUpdateUserChangesPassword(t *testing.T) {
	svc := newAuthEnv()

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "temp", Name: "Temp", Password: "old-pass-1", Role: "cashier",
	})
	require.NoError(t, err)

	newPass := "new-pass-2"
	_, err = svc.UpdateUser(context.Background(), uuid.MustParse(created.ID), dto.UpdateUserRequest{
		Password: &newPass,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "temp", Password: "old-pass-1"})
	require.EqualError(t, err, "invalid credentials")
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "temp", Password: newPass})
	require.NoError(t, err)
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewAuthService(db, "test-secret")

	user, err := svc.Register(context.Background(), "test@example.com", "password123", "Test User")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	loggedIn, token, err := svc.Login(context.Background(), "test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewAuthService(db, "test-secret")

	_, err := svc.Register(context.Background(), "test@example.com", "password123", "Test User")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "test@example.com", "other-password", "Other User")
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewAuthService(db, "test-secret")

	_, err := svc.Register(context.Background(), "test@example.com", "password123", "Test User")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "test@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewAuthService(db, "test-secret")

	user, err := svc.Register(context.Background(), "test@example.com", "password123", "Test User")
	require.NoError(t, err)

	_, token, err := svc.Login(context.Background(), "test@example.com", "password123")
	require.NoError(t, err)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestValidateTokenInvalid(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewAuthService(db, "test-secret")

	_, err := svc.ValidateToken("invalid.token")
	assert.Error(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	db := setupMealTestDB(t)
	issuer := NewAuthService(db, "secret-a")
	verifier := NewAuthService(db, "secret-b")

	_, err := issuer.Register(context.Background(), "test@example.com", "password123", "Test User")
	require.NoError(t, err)
	_, token, err := issuer.Login(context.Background(), "test@example.com", "password123")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

package services

import (
	"testing"

	"examlink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesNonAdminUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, "test-secret")

	user, token, err := svc.Register(&RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "secret123", user.PasswordHash, "password must not be stored in the clear")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, "test-secret")

	req := &RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "secret123"}
	_, _, err := svc.Register(req)
	require.NoError(t, err)

	_, _, err = svc.Register(&RegisterRequest{Email: "alice@example.com", Username: "alice2", Password: "other456"})
	assert.ErrorIs(t, err, ErrEmailExists)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "alice@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, "test-secret")

	_, _, err := svc.Register(&RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	user, token, err := svc.Login("alice@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestLogin_BadCredentialsAreIndistinguishable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, "test-secret")

	_, _, err := svc.Register(&RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login("alice@example.com", "nope")
	_, _, unknownUser := svc.Login("nobody@example.com", "nope")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestGetUserByID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, "test-secret")

	user := createTestUser(t, db, "alice@example.com", false)

	got, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetUserByID(999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

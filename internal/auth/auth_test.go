package auth_test

import (
	"testing"
	"time"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	auth.Configure("test-secret", time.Hour)

	token, err := auth.GenerateToken("user-1", string(models.UserTypeEmployer))
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.Caller{UserID: "user-1", UserType: models.UserTypeEmployer}, claims.Caller())
}

func TestParseToken_WrongSecret(t *testing.T) {
	auth.Configure("secret-a", time.Hour)
	token, err := auth.GenerateToken("user-1", "worker")
	require.NoError(t, err)

	auth.Configure("secret-b", time.Hour)
	_, err = auth.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	auth.Configure("test-secret", time.Nanosecond)
	token, err := auth.GenerateToken("user-1", "worker")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = auth.ParseToken(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("correct horse", hash))
	assert.False(t, auth.CheckPasswordHash("wrong", hash))

	assert.Error(t, auth.ValidatePassword("short"))
	assert.NoError(t, auth.ValidatePassword("long enough"))
}

func TestCaller(t *testing.T) {
	c := auth.Caller{UserID: "a", UserType: models.UserTypeAdmin}
	assert.True(t, c.IsAdmin())
	assert.False(t, c.IsWorker())
	assert.True(t, c.HasType(models.UserTypeEmployer, models.UserTypeAdmin))
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewAdminUser(t *testing.T) {
	user, err := NewAdminUser("s3cret-admin")
	require.NoError(t, err)

	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "admin@videotube.local", user.Email)
	assert.NotEqual(t, "s3cret-admin", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret-admin")))
	assert.Nil(t, user.RefreshTokenHash)
}

func TestNewAdminUser_EmptyPassword(t *testing.T) {
	_, err := NewAdminUser("   ")
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.NotEqual(t, logLevel("production"), logLevel("development"))
}

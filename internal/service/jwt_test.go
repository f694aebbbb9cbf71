package service

import (
	"testing"
	"time"

	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tamper rewrites one character inside the signature segment.
func tamper(token string) string {
	b := []byte(token)
	i := len(b) - 5
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	s := NewJWTService(testJWTConfig())
	user := &model.User{Username: "alice", Email: "alice@example.com", Fullname: "Alice"}
	user.ID = 7

	token, err := s.GenerateAccessToken(user)
	require.NoError(t, err)

	id, err := s.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
}

func TestJWTService_RefreshTokensAreUnique(t *testing.T) {
	s := NewJWTService(testJWTConfig())

	first, err := s.GenerateRefreshToken(3)
	require.NoError(t, err)
	second, err := s.GenerateRefreshToken(3)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	id, err := s.ValidateRefreshToken(second)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	s := NewJWTService(testJWTConfig())
	user := &model.User{}
	user.ID = 1

	access, err := s.GenerateAccessToken(user)
	require.NoError(t, err)
	refresh, err := s.GenerateRefreshToken(1)
	require.NoError(t, err)

	_, err = s.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)

	_, err = s.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_Rejects(t *testing.T) {
	s := NewJWTService(testJWTConfig())
	user := &model.User{}
	user.ID = 1

	valid, err := s.GenerateAccessToken(user)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := s.GenerateAccessToken(user)
	require.NoError(t, err)
	s.now = time.Now

	other := NewJWTService(testJWTConfig())
	other.accessSecret = []byte("someone-elses-secret")
	foreign, err := other.GenerateAccessToken(user)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  *apperrors.DomainError
	}{
		{"empty", "", apperrors.ErrInvalidToken},
		{"garbage", "not-a-jwt", apperrors.ErrInvalidToken},
		{"tampered", tamper(valid), apperrors.ErrInvalidToken},
		{"foreign secret", foreign, apperrors.ErrInvalidToken},
		{"expired", expired, apperrors.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHashRefreshToken(t *testing.T) {
	a := HashRefreshToken("token-a")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashRefreshToken("token-a"))
	assert.NotEqual(t, a, HashRefreshToken("token-b"))
}

func TestIsOwner(t *testing.T) {
	assert.True(t, IsOwner(5, 5))
	assert.True(t, IsOwner(5, 9, 5))
	assert.False(t, IsOwner(5, 9))
	assert.False(t, IsOwner(5))
	assert.False(t, IsOwner(0, 0))
}

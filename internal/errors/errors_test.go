package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", ErrAllFieldsRequired, http.StatusBadRequest},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"refresh mismatch", ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"expired", ErrTokenExpired, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"not found", ErrVideoNotFound, http.StatusNotFound},
		{"conflict", ErrUsernameOrEmailExists, http.StatusConflict},
		{"wrapped internal", WrapError(ErrInternal, errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"fmt wrapped domain", fmt.Errorf("ctx: %w", ErrPlaylistNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	wrapped := WrapError(ErrInternal, errors.New("timeout"))
	assert.ErrorIs(t, wrapped, ErrInternal)
	assert.NotErrorIs(t, wrapped, ErrUploadFailed)

	custom := WithMessage(ErrForbidden, "You can delete only your video")
	assert.Equal(t, http.StatusForbidden, ToHTTPStatus(custom))
	assert.NotErrorIs(t, custom, ErrForbidden)
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "", GetErrorMessage(nil))
	assert.Equal(t, "Video not found", GetErrorMessage(ErrVideoNotFound))
	assert.Equal(t, "Internal server error", GetErrorMessage(WrapError(ErrInternal, errors.New("pq: relation missing"))))
	assert.Equal(t, "Internal Server Error", GetErrorMessage(errors.New("raw driver error")))
}

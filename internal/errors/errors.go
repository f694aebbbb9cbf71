package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Code so wrapped copies still compare equal to the predefined errors
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// WithMessage keeps the code of domainErr but replaces the user-facing message
func WithMessage(domainErr *DomainError, message string) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: message,
		Err:     domainErr.Err,
	}
}

const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL_ERROR"
	CodeUnavailable   = "SERVICE_UNAVAILABLE"
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeInvalidRefTok = "INVALID_REFRESH_TOKEN"
)

// Predefined domain errors
var (
	// User errors
	ErrUserNotFound           = NewDomainError(CodeNotFound, "User does not exist")
	ErrChannelNotFound        = NewDomainError(CodeNotFound, "channel does not exist")
	ErrUsernameOrEmailExists  = NewDomainError(CodeConflict, "User with email or username already exists")
	ErrEmailExists            = NewDomainError(CodeConflict, "email already exists")
	ErrInvalidCredentials     = NewDomainError(CodeUnauthorized, "Invalid user credentials")
	ErrAllFieldsRequired      = NewDomainError(CodeInvalidInput, "All fields are required")
	ErrIdentifierRequired     = NewDomainError(CodeInvalidInput, "username or email is required")
	ErrAvatarRequired         = NewDomainError(CodeInvalidInput, "Avatar file is required")
	ErrCoverImageRequired     = NewDomainError(CodeInvalidInput, "Cover image file is required")
	ErrIncorrectPassword      = NewDomainError(CodeInvalidInput, "Invalid old password")
	ErrSelfSubscription       = NewDomainError(CodeInvalidInput, "You cannot subscribe to your own channel")
	ErrRegistrationIncomplete = NewDomainError(CodeInternal, "Something went wrong while registering the user")

	// Authentication errors
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Unauthorized request")
	ErrInvalidToken        = NewDomainError(CodeInvalidToken, "Invalid access token")
	ErrTokenExpired        = NewDomainError(CodeTokenExpired, "token has expired")
	ErrInvalidRefreshToken = NewDomainError(CodeInvalidRefTok, "Invalid refresh token")
	ErrRefreshTokenReused  = NewDomainError(CodeInvalidRefTok, "Refresh token is expired or used")

	// Authorization errors
	ErrForbidden = NewDomainError(CodeForbidden, "You are not allowed to modify this resource")

	// Resource errors
	ErrVideoNotFound    = NewDomainError(CodeNotFound, "Video not found")
	ErrCommentNotFound  = NewDomainError(CodeNotFound, "Comment not found")
	ErrPlaylistNotFound = NewDomainError(CodeNotFound, "Playlist not found")
	ErrVideoFileMissing = NewDomainError(CodeInvalidInput, "Video file is required")

	// Validation errors
	ErrInvalidInput = NewDomainError(CodeInvalidInput, "invalid input")

	// System errors
	ErrInternal           = NewDomainError(CodeInternal, "Internal server error")
	ErrUploadFailed       = NewDomainError(CodeInternal, "Error while uploading file")
	ErrServiceUnavailable = NewDomainError(CodeUnavailable, "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	// Check if it's a domain error
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case CodeInvalidInput:
		return http.StatusBadRequest

	// 401 Unauthorized
	case CodeUnauthorized, CodeInvalidToken, CodeTokenExpired, CodeInvalidRefTok:
		return http.StatusUnauthorized

	// 403 Forbidden
	case CodeForbidden:
		return http.StatusForbidden

	// 404 Not Found
	case CodeNotFound:
		return http.StatusNotFound

	// 409 Conflict
	case CodeConflict:
		return http.StatusConflict

	// 503 Service Unavailable
	case CodeUnavailable:
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return http.StatusText(http.StatusInternalServerError)
}

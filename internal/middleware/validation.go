package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/Payphone-Digital/videotube/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const MsgValidationFailed = "Validation failed"

type ValidationMiddleware struct {
	validate *validator.Validate
}

// NewValidationMiddleware reads the same `binding` tags gin uses, so DTOs carry one set of rules.
func NewValidationMiddleware() *ValidationMiddleware {
	validate := validator.New()
	validate.SetTagName("binding")
	return &ValidationMiddleware{validate: validate}
}

// ValidateRequestBody decodes and validates a JSON body before the handler runs.
// The body is restored so the handler can bind it again.
func (m *ValidationMiddleware) ValidateRequestBody(factory func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		var bodyBytes []byte
		if c.Request.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(c.Request.Body)
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				logger.GetLogger().Warn("Middleware: Request body exceeds limit",
					zap.String("client_ip", clientIP),
					zap.String("path", c.Request.URL.Path),
					zap.Int64("limit", tooLarge.Limit),
				)
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
					constants.BuildErrorResponse(http.StatusRequestEntityTooLarge, constants.MsgBodyTooLarge, nil))
				return
			}
			if err != nil {
				logger.GetLogger().Error("Middleware: Failed to read request body",
					zap.String("client_ip", clientIP),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
				c.AbortWithStatusJSON(http.StatusBadRequest,
					constants.BuildErrorResponse(http.StatusBadRequest, "Failed to read request body", nil))
				return
			}
		}

		// Restore body untuk dapat dibaca kembali
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		request := factory()

		if len(bodyBytes) > 0 {
			if err := json.Unmarshal(bodyBytes, request); err != nil {
				logger.GetLogger().Warn("Middleware: JSON unmarshaling failed",
					zap.String("client_ip", clientIP),
					zap.String("path", c.Request.URL.Path),
					zap.Int("body_size", len(bodyBytes)),
					zap.Error(err),
				)
				c.AbortWithStatusJSON(http.StatusBadRequest,
					constants.BuildErrorResponse(http.StatusBadRequest, "Invalid JSON body", nil))
				return
			}
		}

		if err := m.validate.Struct(request); err != nil {
			details := ValidationMessages(err)

			logger.GetLogger().Warn("Middleware: Request validation failed",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
				zap.Strings("validation_errors", details),
			)

			c.AbortWithStatusJSON(http.StatusBadRequest,
				constants.BuildErrorResponse(http.StatusBadRequest, MsgValidationFailed, details))
			return
		}

		c.Next()
	}
}

// ValidationMessages renders a validator error (from gin binding or the middleware) as readable lines.
// Anything else yields its own text.
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	fields := make([]validation.FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, validation.FieldError{Field: e.Field(), Tag: e.Tag()})
	}
	return validation.Messages(fields)
}

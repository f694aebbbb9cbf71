package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Payphone-Digital/videotube/internal/constants"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// ContextMiddleware middleware untuk context management
func ContextMiddleware(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, module, c.FullPath())

		// request id comes from requestid.New, which runs first
		if id := requestid.Get(c); id != "" {
			ctx = ctxutil.WithRequestID(ctx, id)
		}

		c.Request = c.Request.WithContext(ctx)

		logger.DebugWithContext(ctx, "Request started").
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			String("query", c.Request.URL.RawQuery).
			Log()

		c.Next()

		logger.DebugWithContext(c.Request.Context(), "Request completed").
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			StatusCode(c.Writer.Status()).
			Int("response_size", c.Writer.Size()).
			Duration(ctxutil.GetDuration(ctx)).
			Log()
	}
}

// RequestTimeoutMiddleware middleware untuk timeout per request; multipart uploads get uploadTimeout
func RequestTimeoutMiddleware(timeout, uploadTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		budget := timeout
		if strings.HasPrefix(c.GetHeader(constants.HeaderContentType), constants.ContentTypeMultipart) {
			budget = uploadTimeout
		}
		if budget <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), budget)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		select {
		case <-ctx.Done():
			logger.WarnWithContext(ctx, "Request timeout before processing").
				Duration(budget).
				Log()
			c.AbortWithStatusJSON(http.StatusRequestTimeout,
				constants.BuildErrorResponse(http.StatusRequestTimeout, constants.MsgTimeout, nil))
			return
		default:
			c.Next()
		}
	}
}

// CorrelationMiddleware middleware untuk correlation ID
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(constants.HeaderXCorrelationID)
		if correlationID == "" {
			correlationID = requestid.Get(c)
		}

		if correlationID != "" {
			ctx := ctxutil.WithValue(c.Request.Context(), ctxutil.CorrelationIDKey, correlationID)
			c.Request = c.Request.WithContext(ctx)
			c.Header(constants.HeaderXCorrelationID, correlationID)
		}

		c.Next()
	}
}

// DefaultContextMiddleware kombinasi middleware default
func DefaultContextMiddleware(module string, timeout, uploadTimeout time.Duration) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		CorrelationMiddleware(),
		RequestTimeoutMiddleware(timeout, uploadTimeout),
		ContextMiddleware(module),
	}
}

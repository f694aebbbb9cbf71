package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionResolver turns an access token into the user it was issued to.
// *service.UserService satisfies it.
type SessionResolver interface {
	ResolveSession(ctx context.Context, accessToken string) (*dto.UserResponse, error)
}

type JWTMiddleware struct {
	sessions SessionResolver
}

func NewJWTMiddleware(sessions SessionResolver) *JWTMiddleware {
	return &JWTMiddleware{sessions: sessions}
}

// ExtractAccessToken reads the access token cookie, falling back to a Bearer header.
// The cookie wins when both are present.
func ExtractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(constants.CookieAccessToken); err == nil && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token)
	}

	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if token, ok := strings.CutPrefix(authHeader, constants.BearerPrefix); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireAuth rejects the request with 401 unless it carries a valid access token for an
// existing user. The sanitized user is attached to the gin and request contexts.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractAccessToken(c)
		if token == "" {
			logger.GetLogger().Warn("Missing access token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}

		user, err := m.sessions.ResolveSession(c.Request.Context(), token)
		if err != nil {
			logger.GetLogger().Warn("Access token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			abortUnauthorized(c, err)
			return
		}

		attachUser(c, user)

		logger.GetLogger().Debug("User authenticated successfully",
			zap.Uint("user_id", user.ID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and otherwise lets the
// request through anonymously.
func (m *JWTMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractAccessToken(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := m.sessions.ResolveSession(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		attachUser(c, user)
		c.Next()
	}
}

func attachUser(c *gin.Context, user *dto.UserResponse) {
	c.Set(constants.GinKeyUser, user)
	c.Set(constants.GinKeyUserID, user.ID)
	c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), user.ID))
}

// abortUnauthorized answers 401 whatever went wrong while resolving the session.
func abortUnauthorized(c *gin.Context, err error) {
	message := constants.MsgUnauthorized
	if apperrors.ToHTTPStatus(err) == http.StatusUnauthorized {
		message = apperrors.GetErrorMessage(err)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(http.StatusUnauthorized, message, nil))
}

// CurrentUser returns the user attached by the session guard.
func CurrentUser(c *gin.Context) (*dto.UserResponse, bool) {
	value, ok := c.Get(constants.GinKeyUser)
	if !ok {
		return nil, false
	}
	user, ok := value.(*dto.UserResponse)
	return user, ok && user != nil
}

// CurrentUserID returns the authenticated user's id, or false for anonymous requests.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, ok := c.Get(constants.GinKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}

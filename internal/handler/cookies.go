package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/Payphone-Digital/videotube/config"
	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/gin-gonic/gin"
)

// SessionCookies writes and clears the two HTTP-only session cookies.
type SessionCookies struct {
	secure     bool
	domain     string
	sameSite   http.SameSite
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSessionCookies(cookie config.CookieConfig, jwt config.JWTConfig) *SessionCookies {
	return &SessionCookies{
		secure:     cookie.Secure,
		domain:     cookie.Domain,
		sameSite:   parseSameSite(cookie.SameSite),
		accessTTL:  jwt.AccessExpiry,
		refreshTTL: jwt.RefreshExpiry,
	}
}

func parseSameSite(raw string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (s *SessionCookies) Set(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(s.sameSite)
	c.SetCookie(constants.CookieAccessToken, accessToken, int(s.accessTTL.Seconds()), "/", s.domain, s.secure, true)
	c.SetCookie(constants.CookieRefreshToken, refreshToken, int(s.refreshTTL.Seconds()), "/", s.domain, s.secure, true)
}

func (s *SessionCookies) Clear(c *gin.Context) {
	c.SetSameSite(s.sameSite)
	c.SetCookie(constants.CookieAccessToken, "", -1, "/", s.domain, s.secure, true)
	c.SetCookie(constants.CookieRefreshToken, "", -1, "/", s.domain, s.secure, true)
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/videotube/config"
	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSessions struct {
	users map[string]*dto.UserResponse
	err   error
	seen  []string
}

func (s *stubSessions) ResolveSession(_ context.Context, token string) (*dto.UserResponse, error) {
	s.seen = append(s.seen, token)
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, apperrors.ErrInvalidToken
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core)
	t.Cleanup(func() { logger.Logger = prev })
	return logs
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func guardedRouter(sessions SessionResolver) *gin.Engine {
	r := gin.New()
	r.GET("/me", NewJWTMiddleware(sessions).RequireAuth(), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		ctxID, _ := ctxutil.GetUserID(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"ok": ok, "username": user.Username, "ctx_user": ctxID})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	alice := &dto.UserResponse{ID: 7, Username: "alice"}

	tests := []struct {
		name       string
		cookie     string
		header     string
		wantStatus int
		wantSeen   string
	}{
		{name: "cookie", cookie: "good", wantStatus: http.StatusOK, wantSeen: "good"},
		{name: "bearer header", header: "Bearer good", wantStatus: http.StatusOK, wantSeen: "good"},
		{name: "cookie wins over header", cookie: "good", header: "Bearer bad", wantStatus: http.StatusOK, wantSeen: "good"},
		{name: "missing", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer bad", wantStatus: http.StatusUnauthorized, wantSeen: "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &stubSessions{users: map[string]*dto.UserResponse{"good": alice}}
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: constants.CookieAccessToken, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			w := httptest.NewRecorder()
			guardedRouter(sessions).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantSeen != "" {
				assert.Equal(t, []string{tt.wantSeen}, sessions.seen)
			} else {
				assert.Empty(t, sessions.seen)
			}

			body := decodeEnvelope(t, w)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "alice", body["username"])
				assert.EqualValues(t, 7, body["ctx_user"])
			} else {
				assert.EqualValues(t, http.StatusUnauthorized, body["statusCode"])
				assert.Equal(t, false, body["success"])
			}
		})
	}
}

func TestRequireAuth_InternalFailureStill401(t *testing.T) {
	sessions := &stubSessions{err: apperrors.WrapError(apperrors.ErrInternal, assert.AnError)}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer whatever")
	w := httptest.NewRecorder()
	guardedRouter(sessions).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, constants.MsgUnauthorized, decodeEnvelope(t, w)["message"])
}

func TestOptionalAuth(t *testing.T) {
	sessions := &stubSessions{users: map[string]*dto.UserResponse{"good": {ID: 3, Username: "bob"}}}
	r := gin.New()
	r.GET("/v", NewJWTMiddleware(sessions).OptionalAuth(), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
	})

	for token, wantID := range map[string]float64{"": 0, "bad": 0, "good": 3} {
		req := httptest.NewRequest(http.MethodGet, "/v", nil)
		if token != "" {
			req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeEnvelope(t, w)
		assert.Equal(t, wantID, body["id"], "token %q", token)
		assert.Equal(t, wantID != 0, body["ok"], "token %q", token)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{AllowedOrigins: []string{"http://app.test"}}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin is echoed with credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "http://app.test")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("other origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "http://evil.test")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "http://app.test")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})
}

func TestCORS_WildcardEchoesOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{AllowedOrigins: []string{"*"}}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://anything.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://anything.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
	w := hit("10.0.0.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, constants.MsgTooManyRequests, body["message"])
	assert.EqualValues(t, http.StatusTooManyRequests, body["statusCode"])

	assert.Equal(t, http.StatusOK, hit("10.0.0.2").Code)

	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
}

func TestRequireAuth_LogsAuthenticatedUser(t *testing.T) {
	logs := observeLogs(t)
	sessions := &stubSessions{users: map[string]*dto.UserResponse{"good": {ID: 7, Username: "alice"}}}

	r := gin.New()
	r.Use(RequestResponseMiddleware())
	r.GET("/me", NewJWTMiddleware(sessions).RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(constants.HeaderAuthorization, "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	authenticated := logs.FilterMessage("User authenticated successfully").All()
	require.Len(t, authenticated, 1)
	assert.Equal(t, uint64(7), authenticated[0].ContextMap()["user_id"])

	completed := logs.FilterMessage("Request completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, uint64(7), completed[0].ContextMap()["user_id"])
}

func TestRecoveryMiddleware_LogsRequestContext(t *testing.T) {
	logs := observeLogs(t)

	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), "req-panic"))
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	request, ok := entries[0].ContextMap()["request"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "req-panic", request["request_id"])
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, constants.MsgInternalError, body["message"])
	assert.Equal(t, false, body["success"])
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/x", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":"0123456789"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateRequestBody(t *testing.T) {
	r := gin.New()
	r.POST("/pw", NewValidationMiddleware().ValidateRequestBody(func() interface{} {
		return &dto.ChangePasswordRequest{}
	}), func(c *gin.Context) {
		var req dto.ChangePasswordRequest
		require.NoError(t, c.ShouldBindJSON(&req))
		c.JSON(http.StatusOK, gin.H{"new": req.NewPassword})
	})

	t.Run("valid body reaches the handler", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pw",
			strings.NewReader(`{"oldPassword":"secret123","newPassword":"secret456"}`)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "secret456", decodeEnvelope(t, w)["new"])
	})

	t.Run("rule violations", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pw",
			strings.NewReader(`{"newPassword":"abc"}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeEnvelope(t, w)
		assert.Equal(t, MsgValidationFailed, body["message"])
		assert.ElementsMatch(t, []any{"old password is required", "new password must be at least 6 characters"}, body["errors"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pw", strings.NewReader(`{`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValidateRequestBody_OverLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/pw", NewValidationMiddleware().ValidateRequestBody(func() interface{} {
		return &dto.ChangePasswordRequest{}
	}), func(c *gin.Context) {
		t.Fatal("handler must not run for an oversized body")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pw",
		strings.NewReader(`{"oldPassword":"secret123","newPassword":"secret456"}`)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, constants.MsgBodyTooLarge, body["message"])
}

func TestCorrelationMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationMiddleware())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetCorrelationID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.HeaderXCorrelationID, "corr-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "corr-1", w.Body.String())
	assert.Equal(t, "corr-1", w.Header().Get(constants.HeaderXCorrelationID))
}

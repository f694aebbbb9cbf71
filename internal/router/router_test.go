package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/videotube/config"
	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/handler"
	"github.com/Payphone-Digital/videotube/internal/middleware"
	"github.com/Payphone-Digital/videotube/internal/repository/repofake"
	"github.com/Payphone-Digital/videotube/internal/service"
	"github.com/Payphone-Digital/videotube/pkg/health"
	"github.com/Payphone-Digital/videotube/pkg/redis"
	"github.com/Payphone-Digital/videotube/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryUploader struct {
	mu    sync.Mutex
	count int
}

func (u *memoryUploader) Upload(_ context.Context, folder string, file storage.File) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.count++
	return fmt.Sprintf("https://media.test/%s/%d-%s", folder, u.count, file.Name), nil
}

func (u *memoryUploader) Delete(context.Context, string) error { return nil }

type testServer struct {
	engine *gin.Engine
	store  *repofake.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "router-access-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshSecret: "router-refresh-secret",
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "videotube",
		},
		Cookie:    config.CookieConfig{Secure: true, SameSite: "lax"},
		Storage:   config.StorageConfig{UploadMaxBytes: 8 << 20},
		RateLimit: config.RateLimitConfig{Request: 1000, Duration: 60},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://app.test"}},
	}

	store := repofake.NewStore()
	uploader := &memoryUploader{}
	client := redis.NewMemoryClient()
	t.Cleanup(func() { _ = client.Close() })

	jwtService := service.NewJWTService(cfg.JWT)
	cache := service.NewCacheService(client, service.CacheConfig{TrendingTTL: time.Minute, ViewDedupTTL: time.Minute})
	users := service.NewUserService(store.Users(), store.Subscriptions(), store.Videos(), jwtService, uploader)
	videos := service.NewVideoService(store.Videos(), store.Users(), store.Subscriptions(), uploader, cache)

	monitor := health.NewMonitor(0, time.Second, nil)
	monitor.Register("database", &health.PingChecker{Enabled: true, Ping: func(context.Context) error { return nil }})
	monitor.Register("redis", &health.PingChecker{Enabled: false, Optional: true})

	handlers := Handlers{
		Auth:         handler.NewAuthHandler(users, handler.NewSessionCookies(cfg.Cookie, cfg.JWT)),
		User:         handler.NewUserHandler(users),
		Video:        handler.NewVideoHandler(videos),
		Comment:      handler.NewCommentHandler(service.NewCommentService(store.Comments(), store.Videos())),
		Like:         handler.NewLikeHandler(service.NewLikeService(store.Likes(), store.Videos(), store.Comments())),
		Subscription: handler.NewSubscriptionHandler(service.NewSubscriptionService(store.Subscriptions(), store.Users())),
		Playlist:     handler.NewPlaylistHandler(service.NewPlaylistService(store.Playlists(), store.Videos())),
		Health:       handler.NewHealthHandler(monitor),
	}

	engine := NewRouter(handlers, middleware.NewValidationMiddleware(), middleware.NewJWTMiddleware(users), cfg).SetupRoutes()
	return &testServer{engine: engine, store: store}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body any) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	return req
}

func multipartRequest(t *testing.T, method, path string, fields, files map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("binary-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(constants.HeaderContentType, mw.FormDataContentType())
	return req
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	return req
}

func (s *testServer) register(t *testing.T, username string) map[string]any {
	t.Helper()
	w := s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register",
		map[string]string{
			"fullname": strings.ToUpper(username[:1]) + username[1:],
			"email":    username + "@example.com",
			"username": username,
			"password": "secret123",
		},
		map[string]string{constants.FormFieldAvatar: "avatar.png"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return envelope(t, w)["data"].(map[string]any)
}

func (s *testServer) login(t *testing.T, username string) (access, refresh string, w *httptest.ResponseRecorder) {
	t.Helper()
	w = s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": username,
		"password": "secret123",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := envelope(t, w)["data"].(map[string]any)
	return data["accessToken"].(string), data["refreshToken"].(string), w
}

func cookieMap(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// flipLast swaps the last character for one that differs in its high bit; the low bits of the
// final base64url character of an HS256 signature are padding and would decode identically.
func flipLast(token string) string {
	i := strings.IndexByte(base64URLAlphabet, token[len(token)-1])
	return token[:len(token)-1] + string(base64URLAlphabet[i^32])
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	user := s.register(t, "alice")
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "refreshToken")
	assert.NotContains(t, user, "refreshTokenHash")

	access, refresh, w := s.login(t, "alice")
	body := envelope(t, w)
	assert.Equal(t, constants.MsgUserLoggedIn, body["message"])
	assert.EqualValues(t, http.StatusOK, body["statusCode"])
	assert.Equal(t, true, body["success"])
	loginUser := body["data"].(map[string]any)["user"].(map[string]any)
	assert.NotContains(t, loginUser, "password")
	assert.NotContains(t, loginUser, "refreshToken")

	cookies := cookieMap(w)
	require.Contains(t, cookies, constants.CookieAccessToken)
	require.Contains(t, cookies, constants.CookieRefreshToken)
	assert.True(t, cookies[constants.CookieAccessToken].HttpOnly)
	assert.True(t, cookies[constants.CookieRefreshToken].Secure)
	assert.Equal(t, access, cookies[constants.CookieAccessToken].Value)
	assert.Equal(t, refresh, cookies[constants.CookieRefreshToken].Value)

	t.Run("tampered refresh token", func(t *testing.T) {
		w := s.do(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": flipLast(refresh)}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, false, envelope(t, w)["success"])
	})

	t.Run("access cookie authenticates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
		req.AddCookie(&http.Cookie{Name: constants.CookieAccessToken, Value: access})
		w := s.do(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", envelope(t, w)["data"].(map[string]any)["username"])
	})

	t.Run("logout clears cookies and revokes", func(t *testing.T) {
		w := s.do(withBearer(httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil), access))
		require.Equal(t, http.StatusOK, w.Code)

		body := envelope(t, w)
		assert.Equal(t, constants.MsgUserLoggedOut, body["message"])
		assert.Equal(t, map[string]any{}, body["data"])

		cleared := cookieMap(w)
		for _, name := range []string{constants.CookieAccessToken, constants.CookieRefreshToken} {
			require.Contains(t, cleared, name)
			assert.Empty(t, cleared[name].Value)
			assert.Less(t, cleared[name].MaxAge, 0)
		}

		stored, err := s.store.Users().GetByID(context.Background(), uint(user["id"].(float64)))
		require.NoError(t, err)
		assert.Nil(t, stored.RefreshTokenHash)

		w = s.do(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": refresh}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRefreshRotation(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "carol")
	_, refresh, _ := s.login(t, "carol")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieRefreshToken, Value: refresh})
	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := envelope(t, w)
	assert.Equal(t, constants.MsgTokenRefreshed, body["message"])
	rotated := body["data"].(map[string]any)["refreshToken"].(string)
	assert.NotEqual(t, refresh, rotated)
	assert.Equal(t, rotated, cookieMap(w)[constants.CookieRefreshToken].Value)

	// the consumed token is gone
	w = s.do(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": refresh}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users/current-user"},
		{http.MethodPost, "/api/v1/users/logout"},
		{http.MethodGet, "/api/v1/likes/videos"},
		{http.MethodPost, "/api/v1/playlists"},
		{http.MethodGet, "/api/v1/videos/subscriptions"},
	} {
		w := s.do(httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		body := envelope(t, w)
		assert.EqualValues(t, http.StatusUnauthorized, body["statusCode"], tc.path)
		assert.Equal(t, false, body["success"], tc.path)
	}

	w := s.do(withBearer(httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil), "not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "dave")

	w := s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register",
		map[string]string{"fullname": "Dave", "email": "dave@example.com", "username": "dave", "password": "secret123"},
		map[string]string{constants.FormFieldAvatar: "a.png"}))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register",
		map[string]string{"fullname": "Erin", "email": "erin@example.com", "username": "erin", "password": "secret123"},
		nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Avatar file is required", envelope(t, w)["message"])

	w = s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register",
		map[string]string{"fullname": " ", "email": "x@example.com", "username": "x", "password": "secret123"},
		map[string]string{constants.FormFieldAvatar: "a.png"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", envelope(t, w)["message"])
}

func TestVideoOwnershipOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	s.register(t, "bob")
	aliceToken, _, _ := s.login(t, "alice")
	bobToken, _, _ := s.login(t, "bob")

	w := s.do(withBearer(multipartRequest(t, http.MethodPost, "/api/v1/videos",
		map[string]string{"title": "First", "description": "hello", "duration": "12.5", "tags": "Go, gin"},
		map[string]string{constants.FormFieldVideoFile: "v.mp4"}), aliceToken))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	video := envelope(t, w)["data"].(map[string]any)
	videoPath := fmt.Sprintf("/api/v1/videos/%d", int(video["id"].(float64)))
	assert.Equal(t, []any{"go", "gin"}, video["tags"])

	w = s.do(withBearer(jsonRequest(http.MethodPatch, videoPath, map[string]string{"title": "Stolen"}), bobToken))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, constants.MsgVideoUpdateForbidden, envelope(t, w)["message"])

	w = s.do(withBearer(jsonRequest(http.MethodPatch, videoPath, map[string]string{"title": "Renamed"}), aliceToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", envelope(t, w)["data"].(map[string]any)["title"])

	w = s.do(withBearer(httptest.NewRequest(http.MethodDelete, videoPath, nil), bobToken))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, videoPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(withBearer(httptest.NewRequest(http.MethodDelete, videoPath, nil), aliceToken))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, videoPath, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublishRequiresVideoFile(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	token, _, _ := s.login(t, "alice")

	w := s.do(withBearer(multipartRequest(t, http.MethodPost, "/api/v1/videos",
		map[string]string{"title": "No file"}, nil), token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Video file is required", envelope(t, w)["message"])
}

func TestMalformedID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, constants.MsgInvalidID, envelope(t, w)["message"])

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/comments/-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSocialFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	s.register(t, "bob")
	aliceToken, _, _ := s.login(t, "alice")
	bobToken, _, _ := s.login(t, "bob")

	w := s.do(withBearer(multipartRequest(t, http.MethodPost, "/api/v1/videos",
		map[string]string{"title": "Talk"}, map[string]string{constants.FormFieldVideoFile: "t.mp4"}), aliceToken))
	require.Equal(t, http.StatusCreated, w.Code)
	videoID := int(envelope(t, w)["data"].(map[string]any)["id"].(float64))

	w = s.do(withBearer(jsonRequest(http.MethodPost, fmt.Sprintf("/api/v1/comments/%d", videoID), map[string]string{"content": "nice"}), bobToken))
	require.Equal(t, http.StatusCreated, w.Code)
	commentID := int(envelope(t, w)["data"].(map[string]any)["id"].(float64))

	// video owner may delete someone else's comment
	w = s.do(withBearer(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/comments/c/%d", commentID), nil), aliceToken))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.MsgCommentDeleted, envelope(t, w)["message"])

	w = s.do(withBearer(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/likes/toggle/v/%d", videoID), nil), bobToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.MsgVideoLiked, envelope(t, w)["message"])

	w = s.do(withBearer(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/likes/toggle/v/%d", videoID), nil), bobToken))
	assert.Equal(t, constants.MsgVideoUnliked, envelope(t, w)["message"])

	channelPath := fmt.Sprintf("/api/v1/subscriptions/c/%d", int(alice["id"].(float64)))
	w = s.do(withBearer(httptest.NewRequest(http.MethodPost, channelPath, nil), bobToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.MsgSubscribed, envelope(t, w)["message"])

	w = s.do(withBearer(httptest.NewRequest(http.MethodPost, channelPath, nil), aliceToken))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(withBearer(httptest.NewRequest(http.MethodGet, "/api/v1/users/c/alice", nil), bobToken))
	require.Equal(t, http.StatusOK, w.Code)
	profile := envelope(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 1, profile["subscribersCount"])
	assert.Equal(t, true, profile["isSubscribed"])

	w = s.do(withBearer(jsonRequest(http.MethodPost, "/api/v1/playlists", map[string]string{"name": "Faves"}), bobToken))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, constants.MsgPlaylistFieldsMissing, envelope(t, w)["message"])

	w = s.do(withBearer(jsonRequest(http.MethodPost, "/api/v1/playlists", map[string]string{"name": "Faves", "description": "best"}), bobToken))
	require.Equal(t, http.StatusCreated, w.Code)
	playlistID := int(envelope(t, w)["data"].(map[string]any)["id"].(float64))

	w = s.do(withBearer(httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/v1/playlists/add/%d/%d", videoID, playlistID), nil), aliceToken))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(withBearer(httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/v1/playlists/add/%d/%d", videoID, playlistID), nil), bobToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, envelope(t, w)["data"].(map[string]any)["videos"], 1)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/healthcheck", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := envelope(t, w)
	assert.Equal(t, constants.MsgHealthy, body["message"])
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	report := envelope(t, w)
	assert.Equal(t, "healthy", report["status"])
	checks := report["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"].(map[string]any)["status"])
	assert.Equal(t, "disabled", checks["redis"].(map[string]any)["status"])
}

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/videotube/config"
	"github.com/Payphone-Digital/videotube/internal/dto"
	"github.com/Payphone-Digital/videotube/internal/repository/repofake"
	"github.com/Payphone-Digital/videotube/pkg/redis"
	"github.com/Payphone-Digital/videotube/pkg/storage"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu      sync.Mutex
	uploads []string
	deletes []string
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, folder string, file storage.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	url := fmt.Sprintf("https://media.test/%s/%d-%s", folder, len(f.uploads)+1, file.Name)
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeUploader) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, url)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		AccessExpiry:  15 * time.Minute,
		RefreshSecret: "refresh-secret-for-tests",
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "videotube",
	}
}

func testFile(name string) *storage.File {
	return &storage.File{Name: name, ContentType: "application/octet-stream", Size: 4, Body: strings.NewReader("data")}
}

// env wires every service over one in-memory store.
type env struct {
	store    *repofake.Store
	uploader *fakeUploader
	jwt      *JWTService
	cache    *CacheService

	users    *UserService
	videos   *VideoService
	comments *CommentService
	likes    *LikeService
	subs     *SubscriptionService
	lists    *PlaylistService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := repofake.NewStore()
	uploader := &fakeUploader{}
	jwtService := NewJWTService(testJWTConfig())

	client := redis.NewMemoryClient()
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCacheService(client, CacheConfig{TrendingTTL: time.Minute, ViewDedupTTL: time.Minute})

	return &env{
		store:    store,
		uploader: uploader,
		jwt:      jwtService,
		cache:    cache,
		users:    NewUserService(store.Users(), store.Subscriptions(), store.Videos(), jwtService, uploader),
		videos:   NewVideoService(store.Videos(), store.Users(), store.Subscriptions(), uploader, cache),
		comments: NewCommentService(store.Comments(), store.Videos()),
		likes:    NewLikeService(store.Likes(), store.Videos(), store.Comments()),
		subs:     NewSubscriptionService(store.Subscriptions(), store.Users()),
		lists:    NewPlaylistService(store.Playlists(), store.Videos()),
	}
}

func (e *env) register(t *testing.T, username string) *dto.UserResponse {
	t.Helper()
	user, err := e.users.RegisterUser(context.Background(), dto.RegisterUserRequest{
		Fullname: strings.ToUpper(username[:1]) + username[1:],
		Email:    username + "@example.com",
		Username: username,
		Password: "secret123",
	}, testFile("avatar.png"), nil)
	require.NoError(t, err)
	return user
}

func (e *env) login(t *testing.T, username string) *dto.UserLoginResponse {
	t.Helper()
	res, err := e.users.LoginUser(context.Background(), dto.UserLoginRequest{Username: username, Password: "secret123"})
	require.NoError(t, err)
	return res
}

func (e *env) publish(t *testing.T, ownerID uint, title, tags string) *dto.VideoResponse {
	t.Helper()
	video, err := e.videos.PublishVideo(context.Background(), ownerID, dto.PublishVideoRequest{
		Title:       title,
		Description: title + " description",
		Duration:    42,
		Tags:        tags,
	}, testFile("clip.mp4"), testFile("thumb.jpg"))
	require.NoError(t, err)
	return video
}

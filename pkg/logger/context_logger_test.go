package logger

import (
	"context"
	"errors"
	"testing"

	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextLogBuilder_ExtractsContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ol := NewOptimizedLogger(zap.New(core), DevelopmentConfig())

	ctx := ctxutil.WithRequestID(context.Background(), "req-1")
	ctx = ctxutil.WithUserID(ctx, 7)
	ctx = ctxutil.WithFunction(ctx, "service", "LoginUser")

	ol.WithContext(ctx).Warn("login failed").String("identifier", "alice").Err(errors.New("bad password")).Log()

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "login failed", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, uint64(7), fields["user_id"])
	assert.Equal(t, "service", fields["module"])
	assert.Equal(t, "LoginUser", fields["function"])
	assert.Equal(t, "alice", fields["identifier"])
	assert.Equal(t, "bad password", fields["error"])
}

func TestContextLogBuilder_LevelGate(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ol := NewOptimizedLogger(zap.New(core), ProductionConfig())

	ol.WithContext(context.Background()).Debug("noise").String("k", "v").Log()
	ol.WithContext(context.Background()).Info("kept").Log()

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestContextLogBuilder_EntityFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ol := NewOptimizedLogger(zap.New(core), DevelopmentConfig())

	ol.WithContext(context.Background()).AutoFields(false).Info("playlist updated").
		VideoID(3).
		PlaylistID(9).
		Object("videos/a.mp4", 42).
		Log()

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, uint64(3), fields["video_id"])
	assert.Equal(t, uint64(9), fields["playlist_id"])
	assert.Equal(t, "videos/a.mp4", fields["object_key"])
	assert.Equal(t, int64(42), fields["object_size"])
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2)
	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}

func TestGetLogger_NopBeforeInit(t *testing.T) {
	assert.NotNil(t, GetLogger())
	assert.NotPanics(t, func() {
		InfoWithContext(context.Background(), "before init").Log()
	})
}

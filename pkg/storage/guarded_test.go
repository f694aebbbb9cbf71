package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/videotube/pkg/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardedFixture(putErr error) (*GuardedUploader, *fakeObjectAPI, *circuit.Breaker) {
	api := &fakeObjectAPI{putErr: putErr}
	breaker := circuit.NewBreaker("object-storage", circuit.Config{
		Threshold:        2,
		Cooldown:         time.Hour,
		SuccessThreshold: 1,
		MaxProbes:        1,
	}, nil)
	return NewGuardedUploader(testUploader(api), breaker), api, breaker
}

func sampleFile() File {
	return File{Name: "clip.mp4", Size: 4, Body: strings.NewReader("data")}
}

func TestGuardedUploader_PassesThrough(t *testing.T) {
	g, api, breaker := guardedFixture(nil)

	url, err := g.Upload(context.Background(), "videos", sampleFile())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/media/videos/"))
	assert.Len(t, api.puts, 1)
	assert.Equal(t, circuit.StateClosed, breaker.State())

	require.NoError(t, g.Delete(context.Background(), url))
	assert.Len(t, api.deletes, 1)
}

func TestGuardedUploader_OpensOnOutage(t *testing.T) {
	g, _, breaker := guardedFixture(errors.New("connection refused"))

	for i := 0; i < 2; i++ {
		_, err := g.Upload(context.Background(), "videos", sampleFile())
		require.Error(t, err)
	}
	assert.Equal(t, circuit.StateOpen, breaker.State())

	_, err := g.Upload(context.Background(), "videos", sampleFile())
	assert.ErrorIs(t, err, circuit.ErrOpen)
}

func TestGuardedUploader_EmptyFileIsNotAnOutage(t *testing.T) {
	g, _, breaker := guardedFixture(nil)

	for i := 0; i < 3; i++ {
		_, err := g.Upload(context.Background(), "avatars", File{Name: "empty.png"})
		assert.ErrorIs(t, err, ErrEmptyFile)
	}
	assert.Equal(t, circuit.StateClosed, breaker.State())
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/Payphone-Digital/videotube/pkg/redis"
)

type CacheService struct {
	redisClient redis.Client
	config      CacheConfig
}

type CacheConfig struct {
	TrendingTTL  time.Duration
	ViewDedupTTL time.Duration
}

// NewCacheService creates a new cache service; a nil client disables caching and de-duplication.
func NewCacheService(redisClient redis.Client, config CacheConfig) *CacheService {
	return &CacheService{
		redisClient: redisClient,
		config:      config,
	}
}

// GetTrending returns the cached trending list. Cache errors count as a miss.
func (s *CacheService) GetTrending(ctx context.Context) ([]dto.VideoResponse, bool) {
	if s == nil || s.redisClient == nil {
		return nil, false
	}

	var videos []dto.VideoResponse
	ok, err := redis.GetJSON(ctx, s.redisClient, constants.CacheKeyTrending, &videos)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to read trending cache").
			Err(err).
			Log()
		return nil, false
	}
	if ok {
		logger.DebugWithContext(ctx, "Trending cache hit").
			Int("count", len(videos)).
			Log()
	}
	return videos, ok
}

func (s *CacheService) SetTrending(ctx context.Context, videos []dto.VideoResponse) {
	if s == nil || s.redisClient == nil || s.config.TrendingTTL <= 0 {
		return
	}

	if err := redis.SetJSON(ctx, s.redisClient, constants.CacheKeyTrending, videos, s.config.TrendingTTL); err != nil {
		logger.WarnWithContext(ctx, "Failed to write trending cache").
			Err(err).
			Log()
	}
}

// InvalidateTrending drops the cached list after any change that can reorder it.
func (s *CacheService) InvalidateTrending(ctx context.Context) {
	if s == nil || s.redisClient == nil {
		return
	}

	if err := s.redisClient.Delete(ctx, constants.CacheKeyTrending); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate trending cache").
			Err(err).
			Log()
	}
}

// MarkView reports whether this viewer has not been counted for the video within the
// de-dupe window. When the cache is unavailable every view counts.
func (s *CacheService) MarkView(ctx context.Context, videoID uint, viewerKey string) bool {
	if s == nil || s.redisClient == nil || s.config.ViewDedupTTL <= 0 {
		return true
	}

	key := fmt.Sprintf("%s%d:%s", constants.CacheKeyView, videoID, viewerKey)
	first, err := s.redisClient.SetNX(ctx, key, []byte("1"), s.config.ViewDedupTTL)
	if err != nil {
		logger.WarnWithContext(ctx, "View de-dupe unavailable").
			VideoID(videoID).
			Err(err).
			Log()
		return true
	}

	return first
}

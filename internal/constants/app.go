package constants

import "time"

// Application Information
const (
	AppName    = "VideoTube"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8000"
	DefaultEnvironment = EnvDevelopment
)

// Cache Key Prefixes
const (
	CacheKeyPrefix   = "vt:"
	CacheKeyVideo    = CacheKeyPrefix + "video:"
	CacheKeyTrending = CacheKeyVideo + "trending"
	CacheKeyView     = CacheKeyPrefix + "view:"
)

// Feed sizes
const (
	RandomVideoLimit   = 40
	TrendingVideoLimit = 40
	SearchVideoLimit   = 40
	TagVideoLimit      = 20
	WatchHistoryLimit  = 100
)

// Timeouts
const (
	DefaultRequestTimeout = 30 * time.Second
	UploadRequestTimeout  = 5 * time.Minute
	HealthCheckTimeout    = 5 * time.Second
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)

package logger

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PerformanceConfig konfigurasi untuk performa logger
type PerformanceConfig struct {
	MinLogLevel     zapcore.Level `json:"min_log_level"`
	MaxLogPerSecond int           `json:"max_log_per_second"`
	EnableRateLimit bool          `json:"enable_rate_limit"`
}

// ProductionConfig drops debug output and caps bursts
func ProductionConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:     zapcore.InfoLevel,
		MaxLogPerSecond: 2000,
		EnableRateLimit: true,
	}
}

// DevelopmentConfig konfigurasi untuk development
func DevelopmentConfig() PerformanceConfig {
	return PerformanceConfig{
		MinLogLevel:     zapcore.DebugLevel,
		MaxLogPerSecond: 10000,
		EnableRateLimit: false,
	}
}

// OptimizedLogger wraps a zap logger with a level gate and a per-second budget
type OptimizedLogger struct {
	config      PerformanceConfig
	logger      *zap.Logger
	rateLimiter *RateLimiter
}

// RateLimiter untuk membatasi jumlah log per detik
type RateLimiter struct {
	maxLogs   int
	current   int
	lastReset time.Time
	mu        sync.Mutex
}

func NewRateLimiter(maxLogs int) *RateLimiter {
	return &RateLimiter{
		maxLogs:   maxLogs,
		lastReset: time.Now(),
	}
}

func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastReset) >= time.Second {
		rl.current = 0
		rl.lastReset = now
	}

	if rl.current >= rl.maxLogs {
		return false
	}

	rl.current++
	return true
}

func NewOptimizedLogger(zapLogger *zap.Logger, config PerformanceConfig) *OptimizedLogger {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &OptimizedLogger{
		config:      config,
		logger:      zapLogger,
		rateLimiter: NewRateLimiter(config.MaxLogPerSecond),
	}
}

// ShouldLog menentukan apakah log harus ditulis
func (ol *OptimizedLogger) ShouldLog(level zapcore.Level) bool {
	if level < ol.config.MinLogLevel {
		return false
	}

	if ol.config.EnableRateLimit && !ol.rateLimiter.Allow() {
		return false
	}

	return true
}

var (
	optimizedLogger *OptimizedLogger
	optimizedOnce   sync.Once
)

// GetOptimizedLogger mengembalikan optimized logger; before InitLogger it wraps a no-op core
func GetOptimizedLogger() *OptimizedLogger {
	if optimizedLogger != nil {
		return optimizedLogger
	}
	optimizedOnce.Do(func() {
		if optimizedLogger == nil {
			optimizedLogger = NewOptimizedLogger(GetLogger(), DevelopmentConfig())
		}
	})
	return optimizedLogger
}

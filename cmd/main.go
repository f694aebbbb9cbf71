package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/videotube/config"
	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/handler"
	"github.com/Payphone-Digital/videotube/internal/middleware"
	"github.com/Payphone-Digital/videotube/internal/repository"
	"github.com/Payphone-Digital/videotube/internal/router"
	"github.com/Payphone-Digital/videotube/internal/service"
	"github.com/Payphone-Digital/videotube/pkg/circuit"
	"github.com/Payphone-Digital/videotube/pkg/database"
	"github.com/Payphone-Digital/videotube/pkg/health"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/Payphone-Digital/videotube/pkg/redis"
	"github.com/Payphone-Digital/videotube/pkg/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	db, err := database.NewPostgresDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	if err := database.Seed(startCtx, db, config.Seed.AdminPassword); err != nil {
		// Don't fail - the service runs without the admin account
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	}

	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	s3Uploader, err := storage.NewS3Uploader(startCtx, config.Storage)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize media storage", zap.Error(err))
	}
	storageBreaker := circuit.NewBreaker("object-storage", circuit.DefaultConfig(), logger.GetLogger())
	uploader := storage.NewGuardedUploader(s3Uploader, storageBreaker)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)

	// Services
	jwtService := service.NewJWTService(config.JWT)
	cacheService := service.NewCacheService(redisClient, service.CacheConfig{
		TrendingTTL:  config.Cache.TrendingTTL,
		ViewDedupTTL: config.Cache.ViewDedupTTL,
	})
	userService := service.NewUserService(userRepo, subscriptionRepo, videoRepo, jwtService, uploader)
	videoService := service.NewVideoService(videoRepo, userRepo, subscriptionRepo, uploader, cacheService)
	commentService := service.NewCommentService(commentRepo, videoRepo)
	likeService := service.NewLikeService(likeRepo, videoRepo, commentRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo)

	// Health monitor
	monitor := health.NewMonitor(time.Minute, constants.HealthCheckTimeout, logger.GetLogger())
	monitor.Register("database", &health.PingChecker{Enabled: true, Ping: database.Ping(db)})
	monitor.Register("redis", &health.PingChecker{Enabled: config.Redis.Enabled, Optional: true, Ping: redisClient.Ping})
	monitor.Register("storage", &health.PingChecker{
		Enabled:  true,
		Optional: true,
		Ping:     func(context.Context) error { return storageBreaker.Ping() },
	})
	monitor.Start()
	defer monitor.Stop()

	// Handlers
	cookies := handler.NewSessionCookies(config.Cookie, config.JWT)
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(userService, cookies),
		User:         handler.NewUserHandler(userService),
		Video:        handler.NewVideoHandler(videoService),
		Comment:      handler.NewCommentHandler(commentService),
		Like:         handler.NewLikeHandler(likeService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Playlist:     handler.NewPlaylistHandler(playlistService),
		Health:       handler.NewHealthHandler(monitor),
	}

	engine := router.NewRouter(
		handlers,
		middleware.NewValidationMiddleware(),
		middleware.NewJWTMiddleware(userService),
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), config.App.Timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}

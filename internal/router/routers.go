package router

import (
	"time"

	"github.com/Payphone-Digital/videotube/config"
	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/handler"
	"github.com/Payphone-Digital/videotube/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Video        *handler.VideoHandler
	Comment      *handler.CommentHandler
	Like         *handler.LikeHandler
	Subscription *handler.SubscriptionHandler
	Playlist     *handler.PlaylistHandler
	Health       *handler.HealthHandler
}

type Router struct {
	handlers Handlers

	validMw *middleware.ValidationMiddleware
	jwtMw   *middleware.JWTMiddleware
	Config  *config.Config
}

func NewRouter(
	handlers Handlers,
	validMw *middleware.ValidationMiddleware,
	jwtMw *middleware.JWTMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		handlers: handlers,
		validMw:  validMw,
		jwtMw:    jwtMw,
		Config:   config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	if r.Config.Storage.UploadMaxBytes > 0 {
		router.MaxMultipartMemory = r.Config.Storage.UploadMaxBytes
	}

	router.Use(requestid.New(requestid.WithCustomHeaderStrKey(constants.HeaderXRequestID)))
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RequestResponseMiddleware())
	router.Use(middleware.SecurityLoggingMiddleware())
	router.Use(middleware.CORS(r.Config.CORS))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	api := router.Group("/api")
	{
		api.GET("/health", r.handlers.Health.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))
			v1.Use(middleware.BodyLimit(r.Config.Storage.UploadMaxBytes))
			v1.Use(middleware.DefaultContextMiddleware("api", constants.DefaultRequestTimeout, constants.UploadRequestTimeout)...)

			v1.GET("/healthcheck", r.handlers.Health.Healthcheck)

			r.userRoutes(v1)
			r.videoRoutes(v1)
			r.commentRoutes(v1)
			r.likeRoutes(v1)
			r.subscriptionRoutes(v1)
			r.playlistRoutes(v1)
		}
	}

	return router
}

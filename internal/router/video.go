package router

import (
	"github.com/Payphone-Digital/videotube/internal/dto"
	"github.com/gin-gonic/gin"
)

func (r *Router) videoRoutes(version *gin.RouterGroup) {
	videos := version.Group("/videos")
	{
		videos.GET("", r.handlers.Video.List)
		videos.GET("/random", r.handlers.Video.Random)
		videos.GET("/trend", r.handlers.Video.Trending)
		videos.GET("/tags", r.handlers.Video.ByTags)
		videos.GET("/search", r.handlers.Video.Search)

		// The session is optional here: it feeds watch history and view de-dupe
		optional := videos.Group("")
		optional.Use(r.jwtMw.OptionalAuth())
		{
			optional.GET("/:videoId", r.handlers.Video.Get)
			optional.PUT("/view/:videoId", r.handlers.Video.AddView)
		}

		protected := videos.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("", r.handlers.Video.Publish)
			protected.GET("/subscriptions", r.handlers.Video.Subscribed)
			protected.PATCH("/:videoId",
				r.validMw.ValidateRequestBody(func() interface{} { return &dto.UpdateVideoRequest{} }),
				r.handlers.Video.Update)
			protected.DELETE("/:videoId", r.handlers.Video.Delete)
			protected.PATCH("/toggle/publish/:videoId", r.handlers.Video.TogglePublish)
		}
	}
}

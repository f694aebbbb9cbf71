package router

import "github.com/gin-gonic/gin"

func (r *Router) commentRoutes(version *gin.RouterGroup) {
	comments := version.Group("/comments")
	{
		comments.GET("/:videoId", r.jwtMw.OptionalAuth(), r.handlers.Comment.List)

		protected := comments.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("/:videoId", r.handlers.Comment.Add)
			protected.PATCH("/c/:commentId", r.handlers.Comment.Update)
			protected.DELETE("/c/:commentId", r.handlers.Comment.Delete)
		}
	}
}

package router

import "github.com/gin-gonic/gin"

func (r *Router) likeRoutes(version *gin.RouterGroup) {
	likes := version.Group("/likes")
	likes.Use(r.jwtMw.RequireAuth())
	{
		likes.POST("/toggle/v/:videoId", r.handlers.Like.ToggleVideoLike)
		likes.POST("/dislike/v/:videoId", r.handlers.Like.DislikeVideo)
		likes.POST("/toggle/c/:commentId", r.handlers.Like.ToggleCommentLike)
		likes.GET("/videos", r.handlers.Like.LikedVideos)
	}
}

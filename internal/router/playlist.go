package router

import "github.com/gin-gonic/gin"

func (r *Router) playlistRoutes(version *gin.RouterGroup) {
	playlists := version.Group("/playlists")
	playlists.Use(r.jwtMw.RequireAuth())
	{
		playlists.POST("", r.handlers.Playlist.Create)
		playlists.GET("/user/:userId", r.handlers.Playlist.UserPlaylists)
		playlists.GET("/:playlistId", r.handlers.Playlist.Get)
		playlists.PATCH("/:playlistId", r.handlers.Playlist.Update)
		playlists.DELETE("/:playlistId", r.handlers.Playlist.Delete)
		playlists.PATCH("/add/:videoId/:playlistId", r.handlers.Playlist.AddVideo)
		playlists.PATCH("/remove/:videoId/:playlistId", r.handlers.Playlist.RemoveVideo)
	}
}

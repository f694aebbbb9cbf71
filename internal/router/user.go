package router

import (
	"github.com/Payphone-Digital/videotube/internal/dto"
	"github.com/gin-gonic/gin"
)

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		// Public routes (no authentication required)
		users.POST("/register", r.handlers.Auth.Register)
		users.POST("/login", r.handlers.Auth.Login)
		users.POST("/refresh-token", r.handlers.Auth.RefreshToken)

		protected := users.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("/logout", r.handlers.Auth.Logout)
			protected.POST("/change-password",
				r.validMw.ValidateRequestBody(func() interface{} { return &dto.ChangePasswordRequest{} }),
				r.handlers.User.ChangePassword)
			protected.GET("/current-user", r.handlers.User.CurrentUser)
			protected.PATCH("/update-account", r.handlers.User.UpdateAccount)
			protected.PATCH("/avatar", r.handlers.User.UpdateAvatar)
			protected.PATCH("/cover-image", r.handlers.User.UpdateCoverImage)
			protected.GET("/c/:username", r.handlers.User.ChannelProfile)
			protected.GET("/history", r.handlers.User.WatchHistory)
		}
	}
}

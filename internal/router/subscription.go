package router

import "github.com/gin-gonic/gin"

func (r *Router) subscriptionRoutes(version *gin.RouterGroup) {
	subscriptions := version.Group("/subscriptions")
	subscriptions.Use(r.jwtMw.RequireAuth())
	{
		subscriptions.POST("/c/:channelId", r.handlers.Subscription.Toggle)
		subscriptions.GET("/c/:channelId", r.handlers.Subscription.Subscribers)
		subscriptions.GET("/u/:subscriberId", r.handlers.Subscription.SubscribedChannels)
	}
}

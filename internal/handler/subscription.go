package handler

import (
	"net/http"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/service"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ToggleSubscription")

	channelID, ok := pathID(c, ctx, "channelId")
	if !ok {
		return
	}

	res, err := h.subscriptionService.ToggleSubscription(ctx, actorID(c), channelID)
	if err != nil {
		respondError(c, ctx, err, "Failed to toggle subscription")
		return
	}

	message := constants.MsgUnsubscribed
	if res.Subscribed {
		message = constants.MsgSubscribed
	}
	respond(c, http.StatusOK, res, message)
}

func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChannelSubscribers")

	channelID, ok := pathID(c, ctx, "channelId")
	if !ok {
		return
	}

	subscribers, err := h.subscriptionService.ChannelSubscribers(ctx, channelID)
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch subscribers")
		return
	}

	respond(c, http.StatusOK, subscribers, constants.MsgSubscribersFound)
}

func (h *SubscriptionHandler) SubscribedChannels(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SubscribedChannels")

	subscriberID, ok := pathID(c, ctx, "subscriberId")
	if !ok {
		return
	}

	channels, err := h.subscriptionService.SubscribedChannels(ctx, subscriberID)
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch subscribed channels")
		return
	}

	respond(c, http.StatusOK, channels, constants.MsgSubscribedChannels)
}

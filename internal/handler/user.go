package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	"github.com/Payphone-Digital/videotube/internal/middleware"
	"github.com/Payphone-Digital/videotube/internal/service"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/Payphone-Digital/videotube/pkg/storage"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{userService: service}
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	respond(c, http.StatusOK, user, constants.MsgCurrentUser)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChangePassword")

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, ctx, err)
		return
	}

	if err := h.userService.ChangePassword(ctx, actorID(c), req); err != nil {
		respondError(c, ctx, err, "Failed to change password")
		return
	}

	respond(c, http.StatusOK, nil, constants.MsgPasswordChanged)
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateAccount")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, ctx, err)
		return
	}

	user, err := h.userService.UpdateAccountDetails(ctx, actorID(c), req)
	if err != nil {
		respondError(c, ctx, err, "Failed to update account")
		return
	}

	respond(c, http.StatusOK, user, constants.MsgAccountUpdated)
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.replaceImage(c, "UpdateAvatar", constants.FormFieldAvatar, h.userService.UpdateAvatar, constants.MsgAvatarUpdated)
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.replaceImage(c, "UpdateCoverImage", constants.FormFieldCoverImage, h.userService.UpdateCoverImage, constants.MsgCoverUpdated)
}

type imageUpdate func(ctx context.Context, userID uint, file *storage.File) (*dto.UserResponse, error)

func (h *UserHandler) replaceImage(c *gin.Context, function, field string, update imageUpdate, message string) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", function)

	file, closer, err := formFile(c, field)
	if err != nil {
		bindError(c, ctx, err)
		return
	}
	defer closer.Close()

	user, err := update(ctx, actorID(c), file)
	if err != nil {
		respondError(c, ctx, err, "Failed to update image")
		return
	}

	logger.InfoWithContext(ctx, "Profile image replaced").
		String("field", field).
		UserID(user.ID).
		Log()

	respond(c, http.StatusOK, user, message)
}

func (h *UserHandler) ChannelProfile(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChannelProfile")

	username := strings.TrimSpace(c.Param("username"))
	profile, err := h.userService.GetChannelProfile(ctx, username, actorID(c))
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch channel")
		return
	}

	respond(c, http.StatusOK, profile, constants.MsgChannelFetched)
}

func (h *UserHandler) WatchHistory(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "WatchHistory")

	videos, err := h.userService.GetWatchHistory(ctx, actorID(c))
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch watch history")
		return
	}

	respond(c, http.StatusOK, videos, constants.MsgHistoryFetched)
}

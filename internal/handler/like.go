package handler

import (
	"net/http"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/service"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

func (h *LikeHandler) ToggleVideoLike(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ToggleVideoLike")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}

	result, err := h.likeService.ToggleVideoLike(ctx, actorID(c), videoID)
	if err != nil {
		respondError(c, ctx, err, "Failed to toggle video like")
		return
	}

	if result.Liked {
		respond(c, http.StatusOK, result.Like, constants.MsgVideoLiked)
		return
	}
	respond(c, http.StatusOK, nil, constants.MsgVideoUnliked)
}

func (h *LikeHandler) DislikeVideo(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DislikeVideo")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}

	if err := h.likeService.DislikeVideo(ctx, actorID(c), videoID); err != nil {
		respondError(c, ctx, err, "Failed to dislike video")
		return
	}

	respond(c, http.StatusOK, nil, constants.MsgVideoDisliked)
}

func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ToggleCommentLike")

	commentID, ok := pathID(c, ctx, "commentId")
	if !ok {
		return
	}

	result, err := h.likeService.ToggleCommentLike(ctx, actorID(c), commentID)
	if err != nil {
		respondError(c, ctx, err, "Failed to toggle comment like")
		return
	}

	if result.Liked {
		respond(c, http.StatusCreated, result.Like, constants.MsgCommentLiked)
		return
	}
	respond(c, http.StatusOK, nil, constants.MsgCommentUnliked)
}

func (h *LikeHandler) LikedVideos(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "LikedVideos")

	videos, err := h.likeService.LikedVideos(ctx, actorID(c))
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch liked videos")
		return
	}

	respond(c, http.StatusOK, videos, constants.MsgLikedVideosFound)
}

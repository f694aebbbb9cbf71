package handler

import (
	"net/http"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	"github.com/Payphone-Digital/videotube/internal/service"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListComments")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}

	pagination := constants.ParsePaginationParams(c)
	res, err := h.commentService.ListComments(ctx, actorID(c), videoID, pagination.Page, pagination.Limit)
	if err != nil {
		respondError(c, ctx, err, "Failed to list comments")
		return
	}

	respond(c, http.StatusOK, res, constants.MsgCommentsFetched)
}

func (h *CommentHandler) Add(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AddComment")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, ctx, err)
		return
	}

	comment, err := h.commentService.AddComment(ctx, actorID(c), videoID, req.Content)
	if err != nil {
		respondError(c, ctx, err, "Failed to add comment")
		return
	}

	respond(c, http.StatusCreated, comment, constants.MsgCommentAdded)
}

func (h *CommentHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateComment")

	commentID, ok := pathID(c, ctx, "commentId")
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, ctx, err)
		return
	}

	comment, err := h.commentService.UpdateComment(ctx, actorID(c), commentID, req.Content)
	if err != nil {
		respondError(c, ctx, err, "Failed to update comment")
		return
	}

	respond(c, http.StatusOK, comment, constants.MsgCommentUpdated)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteComment")

	commentID, ok := pathID(c, ctx, "commentId")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(ctx, actorID(c), commentID); err != nil {
		respondError(c, ctx, err, "Failed to delete comment")
		return
	}

	respond(c, http.StatusOK, nil, constants.MsgCommentDeleted)
}

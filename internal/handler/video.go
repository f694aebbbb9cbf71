package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	"github.com/Payphone-Digital/videotube/internal/service"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

func (h *VideoHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListVideos")

	pagination := constants.ParsePaginationParams(c)
	query := dto.VideoListQuery{
		Page:     pagination.Page,
		Limit:    pagination.Limit,
		Search:   c.Query(constants.QueryParamQuery),
		SortBy:   c.DefaultQuery(constants.QueryParamSortBy, constants.DefaultSortBy),
		SortType: c.DefaultQuery(constants.QueryParamSortType, constants.DefaultSortType),
	}

	if raw := c.Query(constants.QueryParamUserID); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, constants.MsgInvalidID, nil)
			return
		}
		query.UserID = uint(userID)
	}

	logger.DebugWithContext(ctx, "List videos request").
		Int("page", query.Page).
		Int("limit", query.Limit).
		String("search", query.Search).
		String("sort_by", query.SortBy).
		Log()

	res, err := h.videoService.ListVideos(ctx, query)
	if err != nil {
		respondError(c, ctx, err, "Failed to list videos")
		return
	}

	respond(c, http.StatusOK, res, constants.MsgVideosFetched)
}

func (h *VideoHandler) Publish(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "PublishVideo")

	var req dto.PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, ctx, err)
		return
	}

	videoFile, videoCloser, err := formFile(c, constants.FormFieldVideoFile)
	if err != nil {
		bindError(c, ctx, err)
		return
	}
	defer videoCloser.Close()

	thumbnail, thumbCloser, err := formFile(c, constants.FormFieldThumbnail)
	if err != nil {
		bindError(c, ctx, err)
		return
	}
	defer thumbCloser.Close()

	video, err := h.videoService.PublishVideo(ctx, actorID(c), req, videoFile, thumbnail)
	if err != nil {
		respondError(c, ctx, err, "Failed to publish video")
		return
	}

	logger.InfoWithContext(ctx, "Video published").
		VideoID(video.ID).
		Log()

	respond(c, http.StatusCreated, video, constants.MsgVideoPublished)
}

func (h *VideoHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetVideo")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.GetVideo(ctx, videoID, actorID(c))
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch video")
		return
	}

	respond(c, http.StatusOK, video, constants.MsgVideoFetched)
}

func (h *VideoHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateVideo")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}

	var req dto.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, ctx, err)
		return
	}

	video, err := h.videoService.UpdateVideo(ctx, actorID(c), videoID, req)
	if err != nil {
		respondError(c, ctx, err, "Failed to update video")
		return
	}

	respond(c, http.StatusOK, video, constants.MsgVideoUpdated)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteVideo")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}

	if err := h.videoService.DeleteVideo(ctx, actorID(c), videoID); err != nil {
		respondError(c, ctx, err, "Failed to delete video")
		return
	}

	respond(c, http.StatusOK, nil, constants.MsgVideoDeleted)
}

func (h *VideoHandler) TogglePublish(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "TogglePublish")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.TogglePublish(ctx, actorID(c), videoID)
	if err != nil {
		respondError(c, ctx, err, "Failed to toggle publish status")
		return
	}

	respond(c, http.StatusOK, video, constants.MsgVideoPublishToggled)
}

// AddView keys the de-dupe on the user when a session is present, otherwise on the client ip.
func (h *VideoHandler) AddView(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AddView")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}

	viewer := "ip:" + c.ClientIP()
	if id := actorID(c); id != 0 {
		viewer = fmt.Sprintf("user:%d", id)
	}

	if err := h.videoService.AddView(ctx, videoID, viewer); err != nil {
		respondError(c, ctx, err, "Failed to add view")
		return
	}

	respond(c, http.StatusOK, nil, constants.MsgVideoViewed)
}

func (h *VideoHandler) Random(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RandomVideos")

	videos, err := h.videoService.RandomVideos(ctx)
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch random videos")
		return
	}
	respond(c, http.StatusOK, videos, constants.MsgRandomVideos)
}

func (h *VideoHandler) Trending(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "TrendingVideos")

	videos, err := h.videoService.TrendingVideos(ctx)
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch trending videos")
		return
	}
	respond(c, http.StatusOK, videos, constants.MsgTrendingVideos)
}

func (h *VideoHandler) Subscribed(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SubscribedVideos")

	videos, err := h.videoService.SubscribedVideos(ctx, actorID(c))
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch subscription feed")
		return
	}
	respond(c, http.StatusOK, videos, constants.MsgSubscribedVideos)
}

func (h *VideoHandler) ByTags(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "VideosByTags")

	videos, err := h.videoService.VideosByTags(ctx, c.Query(constants.QueryParamTags))
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch videos by tags")
		return
	}
	respond(c, http.StatusOK, videos, constants.MsgTagVideos)
}

func (h *VideoHandler) Search(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SearchVideos")

	videos, err := h.videoService.SearchVideos(ctx, c.Query(constants.QueryParamSearch))
	if err != nil {
		respondError(c, ctx, err, "Search failed")
		return
	}
	respond(c, http.StatusOK, videos, constants.MsgSearchResults)
}


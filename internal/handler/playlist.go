package handler

import (
	"net/http"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	"github.com/Payphone-Digital/videotube/internal/service"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/gin-gonic/gin"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

func (h *PlaylistHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreatePlaylist")

	var req dto.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, ctx, err)
		return
	}

	playlist, err := h.playlistService.CreatePlaylist(ctx, actorID(c), req)
	if err != nil {
		respondError(c, ctx, err, "Failed to create playlist")
		return
	}

	respond(c, http.StatusCreated, playlist, constants.MsgPlaylistCreated)
}

func (h *PlaylistHandler) UserPlaylists(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UserPlaylists")

	userID, ok := pathID(c, ctx, "userId")
	if !ok {
		return
	}

	playlists, err := h.playlistService.UserPlaylists(ctx, actorID(c), userID)
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch playlists")
		return
	}

	respond(c, http.StatusOK, playlists, constants.MsgPlaylistsFound)
}

func (h *PlaylistHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetPlaylist")

	playlistID, ok := pathID(c, ctx, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.GetPlaylist(ctx, actorID(c), playlistID)
	if err != nil {
		respondError(c, ctx, err, "Failed to fetch playlist")
		return
	}

	respond(c, http.StatusOK, playlist, constants.MsgPlaylistFound)
}

func (h *PlaylistHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdatePlaylist")

	playlistID, ok := pathID(c, ctx, "playlistId")
	if !ok {
		return
	}

	var req dto.UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, ctx, err)
		return
	}

	playlist, err := h.playlistService.UpdatePlaylist(ctx, actorID(c), playlistID, req)
	if err != nil {
		respondError(c, ctx, err, "Failed to update playlist")
		return
	}

	respond(c, http.StatusOK, playlist, constants.MsgPlaylistUpdated)
}

func (h *PlaylistHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeletePlaylist")

	playlistID, ok := pathID(c, ctx, "playlistId")
	if !ok {
		return
	}

	if err := h.playlistService.DeletePlaylist(ctx, actorID(c), playlistID); err != nil {
		respondError(c, ctx, err, "Failed to delete playlist")
		return
	}

	respond(c, http.StatusOK, nil, constants.MsgPlaylistDeleted)
}

func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AddVideoToPlaylist")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(c, ctx, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.AddVideo(ctx, actorID(c), playlistID, videoID)
	if err != nil {
		respondError(c, ctx, err, "Failed to add video to playlist")
		return
	}

	respond(c, http.StatusOK, playlist, constants.MsgPlaylistVideoAdded)
}

func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RemoveVideoFromPlaylist")

	videoID, ok := pathID(c, ctx, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(c, ctx, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.RemoveVideo(ctx, actorID(c), playlistID, videoID)
	if err != nil {
		respondError(c, ctx, err, "Failed to remove video from playlist")
		return
	}

	respond(c, http.StatusOK, playlist, constants.MsgPlaylistVideoRemoved)
}

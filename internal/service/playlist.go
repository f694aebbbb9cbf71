package service

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/internal/repository"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
)

type PlaylistService struct {
	repoPlaylist repository.PlaylistStore
	repoVideo    repository.VideoStore
}

func NewPlaylistService(repoPlaylist repository.PlaylistStore, repoVideo repository.VideoStore) *PlaylistService {
	return &PlaylistService{
		repoPlaylist: repoPlaylist,
		repoVideo:    repoVideo,
	}
}

func (s *PlaylistService) loadPlaylist(ctx context.Context, playlistID uint) (*model.Playlist, error) {
	playlist, err := s.repoPlaylist.GetByID(ctx, playlistID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrPlaylistNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return playlist, nil
}

func (s *PlaylistService) loadOwnedPlaylist(ctx context.Context, actor, playlistID uint) (*model.Playlist, error) {
	playlist, err := s.loadPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(actor, playlist.OwnerID) {
		logger.WarnWithContext(ctx, "Playlist ownership check failed").
			PlaylistID(playlistID).
			Log()
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, constants.MsgPlaylistForbidden)
	}
	return playlist, nil
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, actor uint, req dto.CreatePlaylistRequest) (*dto.PlaylistResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "CreatePlaylist")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, constants.MsgPlaylistFieldsMissing)
	}

	playlist := &model.Playlist{Name: name, Description: description, OwnerID: actor}
	if err := s.repoPlaylist.Create(ctx, playlist); err != nil {
		logger.ErrorWithContext(ctx, "Failed to create playlist").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := toPlaylistResponse(playlist, actor)
	return &res, nil
}

func (s *PlaylistService) UserPlaylists(ctx context.Context, viewer, ownerID uint) ([]dto.PlaylistResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UserPlaylists")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	playlists, err := s.repoPlaylist.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := make([]dto.PlaylistResponse, 0, len(playlists))
	for i := range playlists {
		res = append(res, toPlaylistResponse(&playlists[i], viewer))
	}
	return res, nil
}

// GetPlaylist hides draft entries from everyone but their owner.
func (s *PlaylistService) GetPlaylist(ctx context.Context, viewer, playlistID uint) (*dto.PlaylistResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetPlaylist")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	playlist, err := s.loadPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	res := toPlaylistResponse(playlist, viewer)
	return &res, nil
}

func (s *PlaylistService) UpdatePlaylist(ctx context.Context, actor, playlistID uint, req dto.UpdatePlaylistRequest) (*dto.PlaylistResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdatePlaylist")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" && description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, constants.MsgPlaylistFieldsMissing)
	}

	if _, err := s.loadOwnedPlaylist(ctx, actor, playlistID); err != nil {
		return nil, err
	}

	if err := s.repoPlaylist.Update(ctx, playlistID, name, description); err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrPlaylistNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.GetPlaylist(ctx, actor, playlistID)
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, actor, playlistID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "DeletePlaylist")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if _, err := s.loadOwnedPlaylist(ctx, actor, playlistID); err != nil {
		return err
	}

	if err := s.repoPlaylist.Delete(ctx, playlistID); err != nil {
		if isNotFound(err) {
			return apperrors.ErrPlaylistNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

// AddVideo has set semantics; adding a video twice keeps one entry.
func (s *PlaylistService) AddVideo(ctx context.Context, actor, playlistID, videoID uint) (*dto.PlaylistResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "AddVideo")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if _, err := s.loadOwnedPlaylist(ctx, actor, playlistID); err != nil {
		return nil, err
	}

	if _, err := loadVisibleVideo(ctx, s.repoVideo, videoID, actor); err != nil {
		return nil, err
	}

	if err := s.repoPlaylist.AddVideo(ctx, playlistID, videoID); err != nil {
		logger.ErrorWithContext(ctx, "Failed to add video to playlist").
			PlaylistID(playlistID).
			VideoID(videoID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.GetPlaylist(ctx, actor, playlistID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, actor, playlistID, videoID uint) (*dto.PlaylistResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "RemoveVideo")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if _, err := s.loadOwnedPlaylist(ctx, actor, playlistID); err != nil {
		return nil, err
	}

	if err := s.repoPlaylist.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return s.GetPlaylist(ctx, actor, playlistID)
}

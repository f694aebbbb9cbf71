package service

import (
	"context"

	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/internal/repository"
)

// IsOwner reports whether actor is one of owners. A zero actor never owns anything.
func IsOwner(actor uint, owners ...uint) bool {
	if actor == 0 {
		return false
	}
	for _, owner := range owners {
		if owner == actor {
			return true
		}
	}
	return false
}

// CanView reports whether viewer may see video: drafts are visible to their owner only.
func CanView(video *model.Video, viewer uint) bool {
	return video.IsPublished || IsOwner(viewer, video.OwnerID)
}

// visibleVideos keeps the videos viewer may see, in their original order.
func visibleVideos(videos []model.Video, viewer uint) []model.Video {
	out := make([]model.Video, 0, len(videos))
	for i := range videos {
		if CanView(&videos[i], viewer) {
			out = append(out, videos[i])
		}
	}
	return out
}

// loadVisibleVideo fetches a video for viewer. Missing and hidden videos both read as not found.
func loadVisibleVideo(ctx context.Context, videos repository.VideoStore, videoID, viewer uint) (*model.Video, error) {
	video, err := videos.GetByID(ctx, videoID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !CanView(video, viewer) {
		return nil, apperrors.ErrVideoNotFound
	}
	return video, nil
}

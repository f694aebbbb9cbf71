package service

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/videotube/internal/dto"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/internal/repository"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"gorm.io/gorm"
)

type LikeService struct {
	repoLike    repository.LikeStore
	repoVideo   repository.VideoStore
	repoComment repository.CommentStore
}

func NewLikeService(repoLike repository.LikeStore, repoVideo repository.VideoStore, repoComment repository.CommentStore) *LikeService {
	return &LikeService{
		repoLike:    repoLike,
		repoVideo:   repoVideo,
		repoComment: repoComment,
	}
}

func toLikeResponse(like *model.Like) *dto.LikeResponse {
	return &dto.LikeResponse{
		ID:        like.ID,
		VideoID:   like.VideoID,
		CommentID: like.CommentID,
		LikedBy:   like.LikedByID,
		CreatedAt: like.CreatedAt,
	}
}

// ToggleVideoLike likes the video, dropping any dislike, or removes an existing like.
func (s *LikeService) ToggleVideoLike(ctx context.Context, actor, videoID uint) (*dto.LikeToggleResult, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ToggleVideoLike")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if _, err := loadVisibleVideo(ctx, s.repoVideo, videoID, actor); err != nil {
		return nil, err
	}

	existing, err := s.repoLike.FindVideoLike(ctx, videoID, actor)
	if err != nil && !isNotFound(err) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if existing != nil {
		if err := s.repoLike.Delete(ctx, existing.ID); err != nil && !isNotFound(err) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		logger.DebugWithContext(ctx, "Video unliked").
			VideoID(videoID).
			Log()
		return &dto.LikeToggleResult{Liked: false}, nil
	}

	if err := s.repoLike.RemoveVideoDislike(ctx, videoID, actor); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	like := &model.Like{VideoID: &videoID, LikedByID: actor}
	if err := s.repoLike.Create(ctx, like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// a concurrent request already liked it
			winner, err := s.repoLike.FindVideoLike(ctx, videoID, actor)
			return s.settledLike(ctx, winner, err)
		}
		logger.ErrorWithContext(ctx, "Failed to like video").
			VideoID(videoID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.LikeToggleResult{Liked: true, Like: toLikeResponse(like)}, nil
}

// DislikeVideo records a dislike and removes the caller's like, if any.
func (s *LikeService) DislikeVideo(ctx context.Context, actor, videoID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "DislikeVideo")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if _, err := loadVisibleVideo(ctx, s.repoVideo, videoID, actor); err != nil {
		return err
	}

	existing, err := s.repoLike.FindVideoLike(ctx, videoID, actor)
	if err != nil && !isNotFound(err) {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil {
		if err := s.repoLike.Delete(ctx, existing.ID); err != nil && !isNotFound(err) {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	if err := s.repoLike.AddVideoDislike(ctx, videoID, actor); err != nil {
		logger.ErrorWithContext(ctx, "Failed to dislike video").
			VideoID(videoID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, actor, commentID uint) (*dto.LikeToggleResult, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ToggleCommentLike")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	comment, err := s.repoComment.GetByID(ctx, commentID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if _, err := loadVisibleVideo(ctx, s.repoVideo, comment.VideoID, actor); err != nil {
		if errors.Is(err, apperrors.ErrVideoNotFound) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, err
	}

	existing, err := s.repoLike.FindCommentLike(ctx, commentID, actor)
	if err != nil && !isNotFound(err) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if existing != nil {
		if err := s.repoLike.Delete(ctx, existing.ID); err != nil && !isNotFound(err) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		return &dto.LikeToggleResult{Liked: false}, nil
	}

	like := &model.Like{CommentID: &commentID, LikedByID: actor}
	if err := s.repoLike.Create(ctx, like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, err := s.repoLike.FindCommentLike(ctx, commentID, actor)
			return s.settledLike(ctx, winner, err)
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.LikeToggleResult{Liked: true, Like: toLikeResponse(like)}, nil
}

// settledLike reports the like that won a unique-index race as the caller's own.
func (s *LikeService) settledLike(ctx context.Context, like *model.Like, err error) (*dto.LikeToggleResult, error) {
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	logger.DebugWithContext(ctx, "Like already recorded").
		Uint("like_id", like.ID).
		Log()
	return &dto.LikeToggleResult{Liked: true, Like: toLikeResponse(like)}, nil
}

// LikedVideos returns the caller's liked videos, most recent like first.
func (s *LikeService) LikedVideos(ctx context.Context, actor uint) ([]dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "LikedVideos")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	ids, err := s.repoLike.LikedVideoIDs(ctx, actor)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if len(ids) == 0 {
		return []dto.VideoResponse{}, nil
	}

	videos, err := s.repoVideo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	videos = visibleVideos(videos, actor)
	byID := make(map[uint]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}

	res := make([]dto.VideoResponse, 0, len(videos))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			res = append(res, toVideoResponse(v))
		}
	}
	return res, nil
}

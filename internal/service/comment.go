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

type CommentService struct {
	repoComment repository.CommentStore
	repoVideo   repository.VideoStore
}

func NewCommentService(repoComment repository.CommentStore, repoVideo repository.VideoStore) *CommentService {
	return &CommentService{
		repoComment: repoComment,
		repoVideo:   repoVideo,
	}
}

func (s *CommentService) loadComment(ctx context.Context, commentID uint) (*model.Comment, error) {
	comment, err := s.repoComment.GetByID(ctx, commentID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return comment, nil
}

func (s *CommentService) ensureVideo(ctx context.Context, videoID uint) (*model.Video, error) {
	video, err := s.repoVideo.GetByID(ctx, videoID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return video, nil
}

// ListComments pages through a video's comments; drafts only list for their owner.
func (s *CommentService) ListComments(ctx context.Context, viewer, videoID uint, page, limit int) (*dto.CommentListResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ListComments")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if _, err := loadVisibleVideo(ctx, s.repoVideo, videoID, viewer); err != nil {
		return nil, err
	}

	page = constants.ClampPage(page)
	comments, total, err := s.repoComment.ListByVideo(ctx, videoID, limit, constants.PageOffset(page, limit))
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list comments").
			VideoID(videoID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		res = append(res, toCommentResponse(&comments[i]))
	}

	return &dto.CommentListResponse{
		Comments:      res,
		TotalComments: total,
		TotalPages:    constants.TotalPages(total, limit),
		CurrentPage:   page,
	}, nil
}

func (s *CommentService) AddComment(ctx context.Context, actor, videoID uint, content string) (*dto.CommentResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "AddComment")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, constants.MsgCommentContentRequired)
	}

	if _, err := loadVisibleVideo(ctx, s.repoVideo, videoID, actor); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Content: content,
		VideoID: videoID,
		OwnerID: actor,
	}
	if err := s.repoComment.Create(ctx, comment); err != nil {
		logger.ErrorWithContext(ctx, "Failed to add comment").
			VideoID(videoID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := toCommentResponse(comment)
	return &res, nil
}

// UpdateComment is reserved to the comment's author.
func (s *CommentService) UpdateComment(ctx context.Context, actor, commentID uint, content string) (*dto.CommentResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateComment")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, constants.MsgCommentContentRequired)
	}

	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(actor, comment.OwnerID) {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, constants.MsgCommentUpdateForbidden)
	}

	if err := s.repoComment.UpdateContent(ctx, commentID, content); err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	updated, err := s.loadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	res := toCommentResponse(updated)
	return &res, nil
}

// DeleteComment may be done by the author or by the owner of the video it sits under.
func (s *CommentService) DeleteComment(ctx context.Context, actor, commentID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "DeleteComment")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return err
	}

	video, err := s.ensureVideo(ctx, comment.VideoID)
	if err != nil {
		return err
	}

	if !IsOwner(actor, comment.OwnerID, video.OwnerID) {
		logger.WarnWithContext(ctx, "Comment delete rejected").
			CommentID(commentID).
			Log()
		return apperrors.WithMessage(apperrors.ErrForbidden, constants.MsgCommentDeleteForbidden)
	}

	if err := s.repoComment.Delete(ctx, commentID); err != nil {
		if isNotFound(err) {
			return apperrors.ErrCommentNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

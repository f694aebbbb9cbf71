package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/videotube/internal/model"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create comment").
			VideoID(comment.VideoID).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Comment created successfully").
		CommentID(comment.ID).
		VideoID(comment.VideoID).
		Duration(duration).
		Log()

	return r.db.WithContext(ctx).Where("id = ?", comment.OwnerID).First(&comment.Owner).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*model.Comment, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var comment model.Comment
	result := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&comment)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get comment by ID").
			CommentID(id).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &comment, nil
}

// ListByVideo pages through a video's comments, newest first.
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID uint, limit, offset int) ([]model.Comment, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ListByVideo")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	query := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count comments").
			VideoID(videoID).
			Err(err).
			Log()
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("Owner").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch comments").
			VideoID(videoID).
			Duration(duration).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Comments retrieved successfully").
		VideoID(videoID).
		Int64("total", total).
		Int("returned_count", len(comments)).
		Duration(duration).
		Log()

	return comments, total, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateContent")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	result := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update comment").
			CommentID(id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete removes the comment and the likes pointing at it.
func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Comment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("comment_id = ?", id).Delete(&model.Like{}).Error
	})
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete comment").
			CommentID(id).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Comment deleted successfully").
		CommentID(id).
		Duration(duration).
		Log()

	return nil
}

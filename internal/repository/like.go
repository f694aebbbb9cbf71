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

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) FindVideoLike(ctx context.Context, videoID, userID uint) (*model.Like, error) {
	return r.findLike(ctx, "FindVideoLike", "video_id = ? AND liked_by = ?", videoID, userID)
}

func (r *LikeRepository) FindCommentLike(ctx context.Context, commentID, userID uint) (*model.Like, error) {
	return r.findLike(ctx, "FindCommentLike", "comment_id = ? AND liked_by = ?", commentID, userID)
}

func (r *LikeRepository) findLike(ctx context.Context, function, where string, targetID, userID uint) (*model.Like, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, function)
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var like model.Like
	result := r.db.WithContext(ctx).Where(where, targetID, userID).First(&like)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Like lookup missed").
			Uint("target_id", targetID).
			UserID(userID).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &like, nil
}

func (r *LikeRepository) Create(ctx context.Context, like *model.Like) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create like").
			UserID(like.LikedByID).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Like created").
		Uint("like_id", like.ID).
		Log()

	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	result := r.db.WithContext(ctx).Delete(&model.Like{}, id)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete like").
			Uint("like_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *LikeRepository) AddVideoDislike(ctx context.Context, videoID, userID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "AddVideoDislike")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	dislike := &model.Dislike{VideoID: videoID, DislikedByID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(dislike).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to record dislike").
			VideoID(videoID).
			UserID(userID).
			Err(err).
			Log()
		return err
	}

	return nil
}

func (r *LikeRepository) RemoveVideoDislike(ctx context.Context, videoID, userID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "RemoveVideoDislike")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	err := r.db.WithContext(ctx).
		Where("video_id = ? AND disliked_by = ?", videoID, userID).
		Delete(&model.Dislike{}).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to remove dislike").
			VideoID(videoID).
			UserID(userID).
			Err(err).
			Log()
		return err
	}

	return nil
}

// LikedVideoIDs lists the videos a user liked, most recent like first.
func (r *LikeRepository) LikedVideoIDs(ctx context.Context, userID uint) ([]uint, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "LikedVideoIDs")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("liked_by = ? AND video_id IS NOT NULL", userID).
		Order("created_at DESC").
		Pluck("video_id", &ids).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list liked videos").
			UserID(userID).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	return ids, nil
}

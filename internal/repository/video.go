package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Payphone-Digital/videotube/internal/model"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(video)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create video").
			String("title", video.Title).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Video created successfully").
		VideoID(video.ID).
		Uint("owner_id", video.OwnerID).
		Duration(duration).
		Log()

	return r.db.WithContext(ctx).Where("id = ?", video.OwnerID).First(&video.Owner).Error
}

func (r *VideoRepository) GetByID(ctx context.Context, id uint) (*model.Video, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var video model.Video
	result := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&video)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get video by ID").
			VideoID(id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &video, nil
}

// GetByIDs returns the matching videos in no particular order.
func (r *VideoRepository) GetByIDs(ctx context.Context, ids []uint) ([]model.Video, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByIDs")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if len(ids) == 0 {
		return []model.Video{}, nil
	}

	var videos []model.Video
	if err := r.db.WithContext(ctx).Preload("Owner").Where("id IN ?", ids).Find(&videos).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to get videos by IDs").
			Int("count", len(ids)).
			Err(err).
			Log()
		return nil, err
	}

	return videos, nil
}

func (r *VideoRepository) List(ctx context.Context, filter VideoFilter) ([]model.Video, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "List")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Listing videos").
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		String("search", filter.Search).
		String("sort_column", filter.SortColumn).
		Log()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	start := time.Now()
	query := r.db.WithContext(ctx).Model(&model.Video{})

	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count videos").
			Err(err).
			Log()
		return nil, 0, err
	}

	sortColumn := filter.SortColumn
	if sortColumn == "" {
		sortColumn = "created_at"
	}

	var videos []model.Video
	err := query.Preload("Owner").
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumn}, Desc: filter.SortDesc}).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&videos).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch videos").
			Duration(duration).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Videos retrieved successfully").
		Int64("total", total).
		Int("returned_count", len(videos)).
		Duration(duration).
		Log()

	return videos, total, nil
}

// UpdateDetails writes only the non-empty fields.
func (r *VideoRepository) UpdateDetails(ctx context.Context, id uint, title, description, thumbnail string) error {
	columns := map[string]interface{}{}
	if title != "" {
		columns["title"] = title
	}
	if description != "" {
		columns["description"] = description
	}
	if thumbnail != "" {
		columns["thumbnail"] = thumbnail
	}
	return r.updateColumns(ctx, "UpdateDetails", id, columns)
}

func (r *VideoRepository) SetPublished(ctx context.Context, id uint, published bool) error {
	return r.updateColumns(ctx, "SetPublished", id, map[string]interface{}{
		"is_published": published,
	})
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.updateColumns(ctx, "IncrementViews", id, map[string]interface{}{
		"views": gorm.Expr("views + ?", 1),
	})
}

// Delete removes the video together with its comments, likes and playlist memberships.
func (r *VideoRepository) Delete(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Video{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Dislike{}).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM playlist_videos WHERE video_id = ?", id).Error
	})
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete video").
			VideoID(id).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Video deleted successfully").
		VideoID(id).
		Duration(duration).
		Log()

	return nil
}

func (r *VideoRepository) Random(ctx context.Context, limit int) ([]model.Video, error) {
	return r.findPublished(ctx, "Random", func(q *gorm.DB) *gorm.DB {
		return q.Order("RANDOM()").Limit(limit)
	})
}

func (r *VideoRepository) Trending(ctx context.Context, limit int) ([]model.Video, error) {
	return r.findPublished(ctx, "Trending", func(q *gorm.DB) *gorm.DB {
		return q.Order("views DESC").Order("created_at DESC").Limit(limit)
	})
}

func (r *VideoRepository) ByOwners(ctx context.Context, ownerIDs []uint) ([]model.Video, error) {
	if len(ownerIDs) == 0 {
		return []model.Video{}, nil
	}
	return r.findPublished(ctx, "ByOwners", func(q *gorm.DB) *gorm.DB {
		return q.Where("owner_id IN ?", ownerIDs).Order("created_at DESC")
	})
}

// ByTags matches videos carrying any of tags.
func (r *VideoRepository) ByTags(ctx context.Context, tags []string, limit int) ([]model.Video, error) {
	if len(tags) == 0 {
		return []model.Video{}, nil
	}
	return r.findPublished(ctx, "ByTags", func(q *gorm.DB) *gorm.DB {
		cond := r.db.Session(&gorm.Session{NewDB: true})
		for i, tag := range tags {
			encoded, _ := json.Marshal([]string{tag})
			if i == 0 {
				cond = cond.Where("tags @> ?", string(encoded))
			} else {
				cond = cond.Or("tags @> ?", string(encoded))
			}
		}
		return q.Where(cond).Order("views DESC").Limit(limit)
	})
}

func (r *VideoRepository) Search(ctx context.Context, query string, limit int) ([]model.Video, error) {
	return r.findPublished(ctx, "Search", func(q *gorm.DB) *gorm.DB {
		return q.Where("title ILIKE ?", "%"+query+"%").Order("views DESC").Limit(limit)
	})
}

func (r *VideoRepository) findPublished(ctx context.Context, function string, scope func(*gorm.DB) *gorm.DB) ([]model.Video, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, function)
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var videos []model.Video
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("is_published = ?", true).
		Scopes(scope).
		Find(&videos).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to query videos").
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Videos retrieved successfully").
		Int("returned_count", len(videos)).
		Duration(duration).
		Log()

	return videos, nil
}

func (r *VideoRepository) updateColumns(ctx context.Context, function string, id uint, columns map[string]interface{}) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, function)
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Updates(columns)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update video").
			VideoID(id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No video found to update").
			VideoID(id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Video updated successfully").
		VideoID(id).
		Duration(duration).
		Log()

	return nil
}

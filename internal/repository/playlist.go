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

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(playlist).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create playlist").
			Uint("owner_id", playlist.OwnerID).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Playlist created successfully").
		PlaylistID(playlist.ID).
		Log()

	return nil
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id uint) (*model.Playlist, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var playlist model.Playlist
	result := r.db.WithContext(ctx).Preload("Videos").Where("id = ?", id).First(&playlist)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get playlist by ID").
			PlaylistID(id).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &playlist, nil
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Playlist, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ListByOwner")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var playlists []model.Playlist
	err := r.db.WithContext(ctx).
		Preload("Videos").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&playlists).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list playlists").
			Uint("owner_id", ownerID).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	return playlists, nil
}

// Update writes only the non-empty fields.
func (r *PlaylistRepository) Update(ctx context.Context, id uint, name, description string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	columns := map[string]interface{}{}
	if name != "" {
		columns["name"] = name
	}
	if description != "" {
		columns["description"] = description
	}

	result := r.db.WithContext(ctx).Model(&model.Playlist{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update playlist").
			PlaylistID(id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *PlaylistRepository) Delete(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM playlist_videos WHERE playlist_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Playlist{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete playlist").
			PlaylistID(id).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Playlist deleted successfully").
		PlaylistID(id).
		Log()

	return nil
}

// AddVideo has set semantics; adding a member twice is a no-op.
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "AddVideo")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	err := r.db.WithContext(ctx).
		Exec("INSERT INTO playlist_videos (playlist_id, video_id) VALUES (?, ?) ON CONFLICT DO NOTHING", playlistID, videoID).
		Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to add video to playlist").
			PlaylistID(playlistID).
			VideoID(videoID).
			Err(err).
			Log()
		return err
	}

	return nil
}

func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "RemoveVideo")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	err := r.db.WithContext(ctx).
		Exec("DELETE FROM playlist_videos WHERE playlist_id = ? AND video_id = ?", playlistID, videoID).
		Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to remove video from playlist").
			PlaylistID(playlistID).
			VideoID(videoID).
			Err(err).
			Log()
		return err
	}

	return nil
}

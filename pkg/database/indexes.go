package database

import (
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// indexStatements cover the access paths the struct tags cannot express.
var indexStatements = []string{
	// Tag feed: jsonb containment
	"CREATE INDEX IF NOT EXISTS idx_videos_tags_gin ON videos USING GIN (tags);",

	// Listing and trending only ever read published rows
	"CREATE INDEX IF NOT EXISTS idx_videos_published_created ON videos(created_at DESC) WHERE is_published = true AND deleted_at IS NULL;",
	"CREATE INDEX IF NOT EXISTS idx_videos_published_views ON videos(views DESC) WHERE is_published = true AND deleted_at IS NULL;",

	// Case-insensitive title search
	"CREATE INDEX IF NOT EXISTS idx_videos_title_lower ON videos(LOWER(title));",

	// Comment pages are newest first per video
	"CREATE INDEX IF NOT EXISTS idx_comments_video_created ON comments(video_id, created_at DESC) WHERE deleted_at IS NULL;",

	// One like per user per target
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_video_unique ON likes(video_id, liked_by) WHERE video_id IS NOT NULL;",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_comment_unique ON likes(comment_id, liked_by) WHERE comment_id IS NOT NULL;",

	// Case-insensitive login
	"CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email));",
}

// CreateIndexes creates the extra indexes; failures are logged and skipped
func CreateIndexes(db *gorm.DB) error {
	created := 0
	for _, stmt := range indexStatements {
		if err := db.Exec(stmt).Error; err != nil {
			logger.GetLogger().Warn("Failed to create index",
				zap.String("statement", stmt),
				zap.Error(err),
			)
			continue
		}
		created++
	}

	logger.GetLogger().Info("Database indexes ensured",
		zap.Int("created", created),
		zap.Int("total", len(indexStatements)),
	)
	return nil
}

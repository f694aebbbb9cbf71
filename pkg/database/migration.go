package database

import (
	"github.com/Payphone-Digital/videotube/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Comment{},
		&model.Like{},
		&model.Dislike{},
		&model.Subscription{},
		&model.Playlist{},
	); err != nil {
		return err
	}
	return CreateIndexes(db)
}

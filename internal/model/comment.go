package model

import "gorm.io/gorm"

type Comment struct {
	gorm.Model
	Content string `gorm:"column:content;type:text;not null"`
	VideoID uint   `gorm:"column:video_id;not null;index:idx_comments_video_id"`
	OwnerID uint   `gorm:"column:owner_id;not null;index:idx_comments_owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID"`
}

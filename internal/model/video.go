package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Video struct {
	gorm.Model
	VideoFile   string                      `gorm:"column:video_file;type:varchar(2048);not null"`
	Thumbnail   string                      `gorm:"column:thumbnail;type:varchar(2048)"`
	Title       string                      `gorm:"column:title;type:varchar(255);not null;index:idx_videos_title"`
	Description string                      `gorm:"column:description;type:text"`
	Duration    float64                     `gorm:"column:duration;default:0"`
	Views       int64                       `gorm:"column:views;default:0;not null;index:idx_videos_views"`
	IsPublished bool                        `gorm:"column:is_published;default:true;not null;index:idx_videos_is_published"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags;type:jsonb;default:'[]'::jsonb"`
	OwnerID     uint                        `gorm:"column:owner_id;not null;index:idx_videos_owner_id"`
	Owner       User                        `gorm:"foreignKey:OwnerID"`
}

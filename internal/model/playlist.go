package model

import "gorm.io/gorm"

type Playlist struct {
	gorm.Model
	Name        string  `gorm:"column:name;type:varchar(255);not null"`
	Description string  `gorm:"column:description;type:text;not null"`
	OwnerID     uint    `gorm:"column:owner_id;not null;index:idx_playlists_owner_id"`
	Videos      []Video `gorm:"many2many:playlist_videos;"`
}

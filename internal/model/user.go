package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username         string                    `gorm:"column:username;type:varchar(30);uniqueIndex:idx_users_username;not null"`
	Email            string                    `gorm:"column:email;type:varchar(255);uniqueIndex:idx_users_email;not null"`
	Fullname         string                    `gorm:"column:fullname;type:varchar(100);not null;index:idx_users_fullname"`
	Avatar           string                    `gorm:"column:avatar;type:varchar(2048);not null"`
	CoverImage       string                    `gorm:"column:cover_image;type:varchar(2048)"`
	Password         string                    `gorm:"column:password;not null"`
	RefreshTokenHash *string                   `gorm:"column:refresh_token_hash;type:char(64);default:null"`
	WatchHistory     datatypes.JSONSlice[uint] `gorm:"column:watch_history;type:jsonb;default:'[]'::jsonb"`
}

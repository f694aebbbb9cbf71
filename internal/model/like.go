package model

import "time"

// Like targets exactly one of a video or a comment. A user holds at most one like per target;
// the NULL side of each unique index never collides.
type Like struct {
	ID        uint      `gorm:"primarykey"`
	VideoID   *uint     `gorm:"column:video_id;uniqueIndex:idx_likes_video_user"`
	CommentID *uint     `gorm:"column:comment_id;uniqueIndex:idx_likes_comment_user"`
	LikedByID uint      `gorm:"column:liked_by;not null;uniqueIndex:idx_likes_video_user;uniqueIndex:idx_likes_comment_user"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

type Dislike struct {
	ID           uint      `gorm:"primarykey"`
	VideoID      uint      `gorm:"column:video_id;not null;uniqueIndex:idx_dislikes_video_user"`
	DislikedByID uint      `gorm:"column:disliked_by;not null;uniqueIndex:idx_dislikes_video_user"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

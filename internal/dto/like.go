package dto

import "time"

type LikeResponse struct {
	ID        uint      `json:"id"`
	VideoID   *uint     `json:"videoId,omitempty"`
	CommentID *uint     `json:"commentId,omitempty"`
	LikedBy   uint      `json:"likedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeToggleResult reports which way a toggle went.
type LikeToggleResult struct {
	Liked bool
	Like  *LikeResponse
}

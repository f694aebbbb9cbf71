package dto

import "time"

type PublishVideoRequest struct {
	Title       string  `form:"title" binding:"required,max=255"`
	Description string  `form:"description"`
	Duration    float64 `form:"duration" binding:"omitempty,min=0"`
	Tags        string  `form:"tags"`
}

type UpdateVideoRequest struct {
	Title       string `json:"title" binding:"omitempty,max=255"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail" binding:"omitempty,url"`
}

// VideoListQuery carries GET /videos query parameters after parsing.
type VideoListQuery struct {
	Page     int
	Limit    int
	Search   string
	SortBy   string
	SortType string
	UserID   uint
}

type VideoResponse struct {
	ID          uint         `json:"id"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	IsPublished bool         `json:"isPublished"`
	Tags        []string     `json:"tags"`
	Owner       OwnerSummary `json:"owner"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type VideoListResponse struct {
	Videos      []VideoResponse `json:"videos"`
	TotalVideos int64           `json:"totalVideos"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
}

// VideoSummary is the trimmed form listed inside playlists.
type VideoSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

package dto

import "time"

type CommentRequest struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	ID        uint         `json:"id"`
	Content   string       `json:"content"`
	VideoID   uint         `json:"videoId"`
	Owner     OwnerSummary `json:"owner"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type CommentListResponse struct {
	Comments      []CommentResponse `json:"comments"`
	TotalComments int64             `json:"totalComments"`
	TotalPages    int               `json:"totalPages"`
	CurrentPage   int               `json:"currentPage"`
}

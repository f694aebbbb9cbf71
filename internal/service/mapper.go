package service

import (
	"github.com/Payphone-Digital/videotube/internal/dto"
	"github.com/Payphone-Digital/videotube/internal/model"
)

// toUserResponse drops the password hash and refresh token.
func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Fullname:   user.Fullname,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func toOwnerSummary(user model.User) dto.OwnerSummary {
	return dto.OwnerSummary{
		ID:       user.ID,
		Username: user.Username,
		Fullname: user.Fullname,
		Avatar:   user.Avatar,
	}
}

func toVideoResponse(video *model.Video) dto.VideoResponse {
	tags := []string(video.Tags)
	if tags == nil {
		tags = []string{}
	}
	return dto.VideoResponse{
		ID:          video.ID,
		VideoFile:   video.VideoFile,
		Thumbnail:   video.Thumbnail,
		Title:       video.Title,
		Description: video.Description,
		Duration:    video.Duration,
		Views:       video.Views,
		IsPublished: video.IsPublished,
		Tags:        tags,
		Owner:       toOwnerSummary(video.Owner),
		CreatedAt:   video.CreatedAt,
		UpdatedAt:   video.UpdatedAt,
	}
}

func toVideoResponses(videos []model.Video) []dto.VideoResponse {
	res := make([]dto.VideoResponse, 0, len(videos))
	for i := range videos {
		res = append(res, toVideoResponse(&videos[i]))
	}
	return res
}

func toCommentResponse(comment *model.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		VideoID:   comment.VideoID,
		Owner:     toOwnerSummary(comment.Owner),
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// toPlaylistResponse lists only the entries viewer is allowed to see.
func toPlaylistResponse(playlist *model.Playlist, viewer uint) dto.PlaylistResponse {
	visible := visibleVideos(playlist.Videos, viewer)
	videos := make([]dto.VideoSummary, 0, len(visible))
	for _, v := range visible {
		videos = append(videos, dto.VideoSummary{ID: v.ID, Title: v.Title, Thumbnail: v.Thumbnail})
	}
	return dto.PlaylistResponse{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		OwnerID:     playlist.OwnerID,
		Videos:      videos,
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
	}
}

package service

import (
	"context"

	"github.com/Payphone-Digital/videotube/pkg/storage"
)

// Upload folders inside the media bucket
const (
	FolderAvatars    = "avatars"
	FolderCovers     = "covers"
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
)

// MediaUploader is the external media service.
type MediaUploader interface {
	Upload(ctx context.Context, folder string, file storage.File) (string, error)
	Delete(ctx context.Context, url string) error
}

var (
	_ MediaUploader = (*storage.S3Uploader)(nil)
	_ MediaUploader = (*storage.GuardedUploader)(nil)
)

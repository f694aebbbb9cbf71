package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Payphone-Digital/videotube/config"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyFile = errors.New("storage: empty file")

// File is an upload payload detached from the transport it arrived on.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// objectAPI is the subset of *s3.Client the uploader calls.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Uploader stores media in an S3 compatible bucket and hands back public URLs.
type S3Uploader struct {
	api       objectAPI
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3Uploader(ctx context.Context, cfg config.StorageConfig) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(api objectAPI, cfg config.StorageConfig) *S3Uploader {
	publicURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.BaseEndpoint, "/") + "/" + cfg.Bucket
	}
	return &S3Uploader{
		api:       api,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		now:       time.Now,
	}
}

// ObjectKey builds folder/yyyy/mm/dd/<uuid><ext>.
func (u *S3Uploader) ObjectKey(folder, filename string) string {
	d := u.now()
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", folder, d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(path.Ext(filename)))
}

func (u *S3Uploader) Upload(ctx context.Context, folder string, file File) (string, error) {
	if file.Body == nil || file.Size == 0 {
		return "", ErrEmptyFile
	}

	key := u.ObjectKey(folder, file.Name)
	start := time.Now()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          file.Body,
		ContentLength: aws.Int64(file.Size),
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}

	if _, err := u.api.PutObject(ctx, input); err != nil {
		logger.GetLogger().Error("Failed to upload object",
			zap.String("bucket", u.bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	logger.DebugWithContext(ctx, "Object uploaded").
		Object(key, file.Size).
		Duration(time.Since(start)).
		Log()

	return u.publicURL + "/" + key, nil
}

// Delete removes an object previously returned by Upload. URLs outside the bucket are ignored.
func (u *S3Uploader) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, u.publicURL+"/")
	if !ok || key == "" {
		return nil
	}

	_, err := u.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.GetLogger().Warn("Failed to delete object",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

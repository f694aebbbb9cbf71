package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/videotube/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	puts    []*s3.PutObjectInput
	deletes []string
	putErr  error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func testUploader(api objectAPI) *S3Uploader {
	u := newS3Uploader(api, config.StorageConfig{
		Bucket:        "media",
		PublicBaseURL: "https://cdn.example.com/media/",
	})
	u.now = func() time.Time { return time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC) }
	return u
}

func TestS3Uploader_Upload(t *testing.T) {
	api := &fakeObjectAPI{}
	u := testUploader(api)

	url, err := u.Upload(context.Background(), "avatars", File{
		Name:        "Me.PNG",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	require.NoError(t, err)
	require.Len(t, api.puts, 1)

	key := aws.ToString(api.puts[0].Key)
	assert.True(t, strings.HasPrefix(key, "avatars/2024/03/07/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "media", aws.ToString(api.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.ToString(api.puts[0].ContentType))
	assert.Equal(t, "https://cdn.example.com/media/"+key, url)
}

func TestS3Uploader_UploadErrors(t *testing.T) {
	u := testUploader(&fakeObjectAPI{})
	_, err := u.Upload(context.Background(), "videos", File{Name: "a.mp4"})
	assert.ErrorIs(t, err, ErrEmptyFile)

	boom := errors.New("bucket unavailable")
	u = testUploader(&fakeObjectAPI{putErr: boom})
	_, err = u.Upload(context.Background(), "videos", File{Name: "a.mp4", Size: 1, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, boom)
}

func TestS3Uploader_Delete(t *testing.T) {
	api := &fakeObjectAPI{}
	u := testUploader(api)

	require.NoError(t, u.Delete(context.Background(), "https://cdn.example.com/media/avatars/2024/03/07/x.png"))
	require.NoError(t, u.Delete(context.Background(), "https://elsewhere.example.com/y.png"))

	assert.Equal(t, []string{"avatars/2024/03/07/x.png"}, api.deletes)
}

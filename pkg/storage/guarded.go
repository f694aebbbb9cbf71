package storage

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/videotube/pkg/circuit"
)

// Uploader is the media store the services talk to.
type Uploader interface {
	Upload(ctx context.Context, folder string, file File) (string, error)
	Delete(ctx context.Context, url string) error
}

// GuardedUploader fails uploads fast while the object store keeps erroring.
// Deletes are best effort and bypass the breaker.
type GuardedUploader struct {
	next    Uploader
	breaker *circuit.Breaker
}

func NewGuardedUploader(next Uploader, breaker *circuit.Breaker) *GuardedUploader {
	return &GuardedUploader{next: next, breaker: breaker}
}

func (g *GuardedUploader) Upload(ctx context.Context, folder string, file File) (string, error) {
	var (
		url       string
		uploadErr error
	)

	err := g.breaker.Execute(func() error {
		url, uploadErr = g.next.Upload(ctx, folder, file)
		if countsAsOutage(uploadErr) {
			return uploadErr
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return url, uploadErr
}

func (g *GuardedUploader) Delete(ctx context.Context, url string) error {
	return g.next.Delete(ctx, url)
}

// countsAsOutage leaves out failures caused by the caller.
func countsAsOutage(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrEmptyFile) && !errors.Is(err, context.Canceled)
}

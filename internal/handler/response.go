package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Payphone-Digital/videotube/internal/constants"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/middleware"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/Payphone-Digital/videotube/pkg/storage"
	"github.com/gin-gonic/gin"
)

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, constants.BuildSuccessResponse(status, data, message))
}

func respondMessage(c *gin.Context, status int, message string, details any) {
	c.JSON(status, constants.BuildErrorResponse(status, message, details))
}

// respondError maps a service error onto the error envelope. Internal failures never leak their cause.
func respondError(c *gin.Context, ctx context.Context, err error, logMessage string) {
	status := apperrors.ToHTTPStatus(err)
	message := apperrors.GetErrorMessage(err)

	if status >= http.StatusInternalServerError {
		logger.ErrorWithContext(ctx, logMessage).
			Int("http_status", status).
			Err(err).
			Log()
		if !errors.Is(err, apperrors.ErrUploadFailed) && !errors.Is(err, apperrors.ErrRegistrationIncomplete) {
			message = constants.MsgInternalError
		}
	} else {
		logger.WarnWithContext(ctx, logMessage).
			Int("http_status", status).
			String("reason", message).
			Log()
	}

	respondMessage(c, status, message, nil)
}

// bindError answers a binding failure: 413 past the body cap, otherwise 400 with field details.
func bindError(c *gin.Context, ctx context.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.WarnWithContext(ctx, "Request body too large").
			Int64("limit", tooLarge.Limit).
			Log()
		respondMessage(c, http.StatusRequestEntityTooLarge, constants.MsgBodyTooLarge, nil)
		return
	}

	logger.WarnWithContext(ctx, "Invalid request body").
		Err(err).
		Log()
	respondMessage(c, http.StatusBadRequest, constants.MsgBadRequest, middleware.ValidationMessages(err))
}

// pathID parses an unsigned id path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, ctx context.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		logger.WarnWithContext(ctx, "Invalid id format").
			String("param", name).
			String("raw_id", raw).
			Log()
		respondMessage(c, http.StatusBadRequest, constants.MsgInvalidID, nil)
		return 0, false
	}
	return uint(id), true
}

// actorID returns the id attached by the session guard.
func actorID(c *gin.Context) uint {
	id, _ := middleware.CurrentUserID(c)
	return id
}

// formFile opens an optional multipart file. A missing field yields a nil file and no error.
func formFile(c *gin.Context, field string) (*storage.File, io.Closer, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nopCloser{}, nil
		}
		return nil, nopCloser{}, err
	}
	return openHeader(header)
}

func openHeader(header *multipart.FileHeader) (*storage.File, io.Closer, error) {
	f, err := header.Open()
	if err != nil {
		return nil, nopCloser{}, err
	}
	return &storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get(constants.HeaderContentType),
		Size:        header.Size,
		Body:        f,
	}, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

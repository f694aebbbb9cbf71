package service

import (
	"context"
	"slices"
	"strings"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/internal/repository"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"github.com/Payphone-Digital/videotube/pkg/storage"
	"gorm.io/datatypes"
)

// sortColumns maps the public sortBy values onto columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"title":     "title",
	"duration":  "duration",
}

type VideoService struct {
	repoVideo repository.VideoStore
	repoUser  repository.UserStore
	repoSub   repository.SubscriptionStore
	uploader  MediaUploader
	cache     *CacheService
}

func NewVideoService(
	repoVideo repository.VideoStore,
	repoUser repository.UserStore,
	repoSub repository.SubscriptionStore,
	uploader MediaUploader,
	cache *CacheService,
) *VideoService {
	return &VideoService{
		repoVideo: repoVideo,
		repoUser:  repoUser,
		repoSub:   repoSub,
		uploader:  uploader,
		cache:     cache,
	}
}

// ParseTags splits a comma separated list into trimmed, lower-cased, unique tags.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// loadVideo fetches a video or maps absence to ErrVideoNotFound.
func (s *VideoService) loadVideo(ctx context.Context, videoID uint) (*model.Video, error) {
	video, err := s.repoVideo.GetByID(ctx, videoID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrVideoNotFound
		}
		logger.ErrorWithContext(ctx, "Failed to load video").
			VideoID(videoID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return video, nil
}

// loadOwnedVideo also enforces that actor owns the video; forbidden carries the caller's message.
func (s *VideoService) loadOwnedVideo(ctx context.Context, actor, videoID uint, forbidden string) (*model.Video, error) {
	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(actor, video.OwnerID) {
		logger.WarnWithContext(ctx, "Video ownership check failed").
			VideoID(videoID).
			Uint("owner_id", video.OwnerID).
			Log()
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, forbidden)
	}
	return video, nil
}

func (s *VideoService) ListVideos(ctx context.Context, query dto.VideoListQuery) (*dto.VideoListResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ListVideos")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	column, ok := sortColumns[query.SortBy]
	if !ok {
		column = sortColumns[constants.DefaultSortBy]
	}
	query.Page = constants.ClampPage(query.Page)

	filter := repository.VideoFilter{
		Limit:         query.Limit,
		Offset:        constants.PageOffset(query.Page, query.Limit),
		Search:        strings.TrimSpace(query.Search),
		SortColumn:    column,
		SortDesc:      !strings.EqualFold(query.SortType, constants.OrderAsc),
		OwnerID:       query.UserID,
		PublishedOnly: true,
	}

	videos, total, err := s.repoVideo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.DebugWithContext(ctx, "Videos listed").
		Int64("total", total).
		Int("page", query.Page).
		Log()

	return &dto.VideoListResponse{
		Videos:      toVideoResponses(videos),
		TotalVideos: total,
		TotalPages:  constants.TotalPages(total, query.Limit),
		CurrentPage: query.Page,
	}, nil
}

func (s *VideoService) PublishVideo(ctx context.Context, ownerID uint, req dto.PublishVideoRequest, videoFile, thumbnail *storage.File) (*dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "PublishVideo")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, constants.MsgVideoDetailsRequired)
	}
	if videoFile == nil {
		return nil, apperrors.ErrVideoFileMissing
	}

	videoURL, err := s.uploader.Upload(ctx, FolderVideos, *videoFile)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to upload video file").
			Uint("owner_id", ownerID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrUploadFailed, err)
	}

	var thumbnailURL string
	if thumbnail != nil {
		thumbnailURL, err = s.uploader.Upload(ctx, FolderThumbnails, *thumbnail)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrUploadFailed, err)
		}
	}

	video := &model.Video{
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Duration:    req.Duration,
		IsPublished: true,
		Tags:        datatypes.NewJSONSlice(ParseTags(req.Tags)),
		OwnerID:     ownerID,
	}
	if err := s.repoVideo.Create(ctx, video); err != nil {
		logger.ErrorWithContext(ctx, "Failed to save video").
			Uint("owner_id", ownerID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.InvalidateTrending(ctx)

	logger.InfoWithContext(ctx, "Video published").
		VideoID(video.ID).
		Uint("owner_id", ownerID).
		Log()

	res := toVideoResponse(video)
	return &res, nil
}

// GetVideo returns a video. Unpublished videos are only visible to their owner. A signed-in
// viewer gets the video pushed onto their watch history.
func (s *VideoService) GetVideo(ctx context.Context, videoID, viewerID uint) (*dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetVideo")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !CanView(video, viewerID) {
		return nil, apperrors.ErrVideoNotFound
	}

	if viewerID != 0 {
		if err := s.repoUser.PushWatchHistory(ctx, viewerID, video.ID, constants.WatchHistoryLimit); err != nil {
			logger.WarnWithContext(ctx, "Failed to record watch history").
				VideoID(videoID).
				Err(err).
				Log()
		}
	}

	res := toVideoResponse(video)
	return &res, nil
}

func (s *VideoService) UpdateVideo(ctx context.Context, actor, videoID uint, req dto.UpdateVideoRequest) (*dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateVideo")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	thumbnail := strings.TrimSpace(req.Thumbnail)
	if title == "" && description == "" && thumbnail == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, constants.MsgVideoDetailsRequired)
	}

	if _, err := s.loadOwnedVideo(ctx, actor, videoID, constants.MsgVideoUpdateForbidden); err != nil {
		return nil, err
	}

	if err := s.repoVideo.UpdateDetails(ctx, videoID, title, description, thumbnail); err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.InvalidateTrending(ctx)

	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	res := toVideoResponse(video)
	return &res, nil
}

// DeleteVideo removes the video with its comments, likes and playlist entries, then its media.
func (s *VideoService) DeleteVideo(ctx context.Context, actor, videoID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "DeleteVideo")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	video, err := s.loadOwnedVideo(ctx, actor, videoID, constants.MsgVideoDeleteForbidden)
	if err != nil {
		return err
	}

	if err := s.repoVideo.Delete(ctx, videoID); err != nil {
		if isNotFound(err) {
			return apperrors.ErrVideoNotFound
		}
		logger.ErrorWithContext(ctx, "Failed to delete video").
			VideoID(videoID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.InvalidateTrending(ctx)

	for _, url := range []string{video.VideoFile, video.Thumbnail} {
		if url == "" {
			continue
		}
		if err := s.uploader.Delete(ctx, url); err != nil {
			logger.WarnWithContext(ctx, "Failed to delete video media").
				String("url", url).
				Err(err).
				Log()
		}
	}

	logger.InfoWithContext(ctx, "Video deleted").
		VideoID(videoID).
		Log()
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, actor, videoID uint) (*dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "TogglePublish")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	video, err := s.loadOwnedVideo(ctx, actor, videoID, constants.MsgVideoUpdateForbidden)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.repoVideo.SetPublished(ctx, videoID, video.IsPublished); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.InvalidateTrending(ctx)

	res := toVideoResponse(video)
	return &res, nil
}

// AddView counts one view per viewerKey inside the de-dupe window. A repeated view is not an error.
func (s *VideoService) AddView(ctx context.Context, videoID uint, viewerKey string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "AddView")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return err
	}
	if !CanView(video, 0) {
		return apperrors.ErrVideoNotFound
	}

	if !s.cache.MarkView(ctx, videoID, viewerKey) {
		logger.DebugWithContext(ctx, "Duplicate view ignored").
			VideoID(videoID).
			Log()
		return nil
	}

	if err := s.repoVideo.IncrementViews(ctx, videoID); err != nil {
		if isNotFound(err) {
			return apperrors.ErrVideoNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func (s *VideoService) RandomVideos(ctx context.Context) ([]dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "RandomVideos")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	videos, err := s.repoVideo.Random(ctx, constants.RandomVideoLimit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toVideoResponses(videos), nil
}

// TrendingVideos is served from cache when possible.
func (s *VideoService) TrendingVideos(ctx context.Context) ([]dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "TrendingVideos")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if cached, ok := s.cache.GetTrending(ctx); ok {
		return cached, nil
	}

	videos, err := s.repoVideo.Trending(ctx, constants.TrendingVideoLimit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := toVideoResponses(videos)
	s.cache.SetTrending(ctx, res)
	return res, nil
}

func (s *VideoService) SubscribedVideos(ctx context.Context, userID uint) ([]dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SubscribedVideos")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	subs, err := s.repoSub.ListChannels(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if len(subs) == 0 {
		return []dto.VideoResponse{}, nil
	}

	channelIDs := make([]uint, 0, len(subs))
	for _, sub := range subs {
		channelIDs = append(channelIDs, sub.ChannelID)
	}

	videos, err := s.repoVideo.ByOwners(ctx, channelIDs)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toVideoResponses(videos), nil
}

func (s *VideoService) VideosByTags(ctx context.Context, rawTags string) ([]dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "VideosByTags")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	tags := ParseTags(rawTags)
	if len(tags) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, constants.MsgTagsRequired)
	}

	videos, err := s.repoVideo.ByTags(ctx, tags, constants.TagVideoLimit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return toVideoResponses(videos), nil
}

func (s *VideoService) SearchVideos(ctx context.Context, query string) ([]dto.VideoResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SearchVideos")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, constants.MsgSearchRequired)
	}

	videos, err := s.repoVideo.Search(ctx, query, constants.SearchVideoLimit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.DebugWithContext(ctx, "Search finished").
		String("query", query).
		Int("count", len(videos)).
		Log()

	return toVideoResponses(videos), nil
}

package repository

import (
	"context"

	"github.com/Payphone-Digital/videotube/internal/model"
)

// UserStore is the credential store. Lookups that find nothing return gorm.ErrRecordNotFound.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	EmailTakenByOther(ctx context.Context, email string, excludeID uint) (bool, error)
	UpdateAccount(ctx context.Context, id uint, fullname, email string) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	UpdateAvatar(ctx context.Context, id uint, avatar string) error
	UpdateCoverImage(ctx context.Context, id uint, coverImage string) error

	// SetRefreshToken unconditionally replaces the stored refresh token hash.
	SetRefreshToken(ctx context.Context, id uint, tokenHash string) error
	// SwapRefreshToken replaces the stored hash only while it still equals presentedHash.
	// It returns gorm.ErrRecordNotFound when nothing was swapped.
	SwapRefreshToken(ctx context.Context, id uint, presentedHash, newHash string) error
	ClearRefreshToken(ctx context.Context, id uint) error

	PushWatchHistory(ctx context.Context, id, videoID uint, limit int) error
}

// VideoFilter narrows the paginated listing.
type VideoFilter struct {
	Limit         int
	Offset        int
	Search        string
	SortColumn    string
	SortDesc      bool
	OwnerID       uint
	PublishedOnly bool
}

type VideoStore interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id uint) (*model.Video, error)
	GetByIDs(ctx context.Context, ids []uint) ([]model.Video, error)
	List(ctx context.Context, filter VideoFilter) ([]model.Video, int64, error)
	UpdateDetails(ctx context.Context, id uint, title, description, thumbnail string) error
	SetPublished(ctx context.Context, id uint, published bool) error
	IncrementViews(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	Random(ctx context.Context, limit int) ([]model.Video, error)
	Trending(ctx context.Context, limit int) ([]model.Video, error)
	ByOwners(ctx context.Context, ownerIDs []uint) ([]model.Video, error)
	ByTags(ctx context.Context, tags []string, limit int) ([]model.Video, error)
	Search(ctx context.Context, query string, limit int) ([]model.Video, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uint) (*model.Comment, error)
	ListByVideo(ctx context.Context, videoID uint, limit, offset int) ([]model.Comment, int64, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
}

type LikeStore interface {
	FindVideoLike(ctx context.Context, videoID, userID uint) (*model.Like, error)
	FindCommentLike(ctx context.Context, commentID, userID uint) (*model.Like, error)
	Create(ctx context.Context, like *model.Like) error
	Delete(ctx context.Context, id uint) error
	// AddVideoDislike is idempotent.
	AddVideoDislike(ctx context.Context, videoID, userID uint) error
	RemoveVideoDislike(ctx context.Context, videoID, userID uint) error
	LikedVideoIDs(ctx context.Context, userID uint) ([]uint, error)
}

type SubscriptionStore interface {
	Find(ctx context.Context, subscriberID, channelID uint) (*model.Subscription, error)
	Create(ctx context.Context, sub *model.Subscription) error
	Delete(ctx context.Context, id uint) error
	ListSubscribers(ctx context.Context, channelID uint) ([]model.Subscription, error)
	ListChannels(ctx context.Context, subscriberID uint) ([]model.Subscription, error)
	CountSubscribers(ctx context.Context, channelID uint) (int64, error)
	CountChannels(ctx context.Context, subscriberID uint) (int64, error)
}

type PlaylistStore interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id uint) (*model.Playlist, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Playlist, error)
	Update(ctx context.Context, id uint, name, description string) error
	Delete(ctx context.Context, id uint) error
	AddVideo(ctx context.Context, playlistID, videoID uint) error
	RemoveVideo(ctx context.Context, playlistID, videoID uint) error
}

var (
	_ UserStore         = (*UserRepository)(nil)
	_ VideoStore        = (*VideoRepository)(nil)
	_ CommentStore      = (*CommentRepository)(nil)
	_ LikeStore         = (*LikeRepository)(nil)
	_ SubscriptionStore = (*SubscriptionRepository)(nil)
	_ PlaylistStore     = (*PlaylistRepository)(nil)
)

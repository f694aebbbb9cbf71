package repofake

import (
	"cmp"
	"context"
	"slices"

	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/internal/repository"
	"gorm.io/gorm"
)

var (
	_ repository.CommentStore      = (*CommentRepo)(nil)
	_ repository.LikeStore         = (*LikeRepo)(nil)
	_ repository.SubscriptionStore = (*SubscriptionRepo)(nil)
	_ repository.PlaylistStore     = (*PlaylistRepo)(nil)
)

type CommentRepo struct {
	s *Store
}

func (r *CommentRepo) Create(_ context.Context, comment *model.Comment) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if err := r.s.takeFailure(); err != nil {
		return err
	}
	comment.ID, comment.CreatedAt = r.s.id()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	stored.Owner = model.User{}
	r.s.comments[comment.ID] = &stored
	comment.Owner = r.s.ownerOf(comment.OwnerID)
	return nil
}

func (r *CommentRepo) GetByID(_ context.Context, id uint) (*model.Comment, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *c
	out.Owner = r.s.ownerOf(c.OwnerID)
	return &out, nil
}

func (r *CommentRepo) ListByVideo(_ context.Context, videoID uint, limit, offset int) ([]model.Comment, int64, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	out := []model.Comment{}
	for _, c := range r.s.comments {
		if c.VideoID == videoID {
			cp := *c
			cp.Owner = r.s.ownerOf(c.OwnerID)
			out = append(out, cp)
		}
	}
	slices.SortFunc(out, func(a, b model.Comment) int { return cmp.Compare(b.ID, a.ID) })
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *CommentRepo) UpdateContent(_ context.Context, id uint, content string) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Content = content
	return nil
}

func (r *CommentRepo) Delete(_ context.Context, id uint) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.comments, id)
	for lid, l := range r.s.likes {
		if l.CommentID != nil && *l.CommentID == id {
			delete(r.s.likes, lid)
		}
	}
	return nil
}

type LikeRepo struct {
	s *Store
}

// samePtr matches two non-nil ids, mirroring a unique index where NULLs never collide.
func samePtr(a, b *uint) bool {
	return a != nil && b != nil && *a == *b
}

func (r *LikeRepo) find(match func(l *model.Like) bool) (*model.Like, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	for _, l := range r.s.likes {
		if match(l) {
			out := *l
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *LikeRepo) FindVideoLike(_ context.Context, videoID, userID uint) (*model.Like, error) {
	return r.find(func(l *model.Like) bool {
		return l.VideoID != nil && *l.VideoID == videoID && l.LikedByID == userID
	})
}

func (r *LikeRepo) FindCommentLike(_ context.Context, commentID, userID uint) (*model.Like, error) {
	return r.find(func(l *model.Like) bool {
		return l.CommentID != nil && *l.CommentID == commentID && l.LikedByID == userID
	})
}

func (r *LikeRepo) Create(_ context.Context, like *model.Like) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if err := r.s.takeFailure(); err != nil {
		return err
	}
	for _, l := range r.s.likes {
		if l.LikedByID == like.LikedByID && (samePtr(l.VideoID, like.VideoID) || samePtr(l.CommentID, like.CommentID)) {
			return gorm.ErrDuplicatedKey
		}
	}
	like.ID, like.CreatedAt = r.s.id()
	stored := *like
	r.s.likes[like.ID] = &stored
	return nil
}

func (r *LikeRepo) Delete(_ context.Context, id uint) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if _, ok := r.s.likes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.likes, id)
	return nil
}

func (r *LikeRepo) AddVideoDislike(_ context.Context, videoID, userID uint) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	for _, d := range r.s.dislikes {
		if d.VideoID == videoID && d.DislikedByID == userID {
			return nil
		}
	}
	id, at := r.s.id()
	r.s.dislikes[id] = &model.Dislike{ID: id, VideoID: videoID, DislikedByID: userID, CreatedAt: at}
	return nil
}

func (r *LikeRepo) RemoveVideoDislike(_ context.Context, videoID, userID uint) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	for id, d := range r.s.dislikes {
		if d.VideoID == videoID && d.DislikedByID == userID {
			delete(r.s.dislikes, id)
		}
	}
	return nil
}

func (r *LikeRepo) LikedVideoIDs(_ context.Context, userID uint) ([]uint, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	likes := []*model.Like{}
	for _, l := range r.s.likes {
		if l.LikedByID == userID && l.VideoID != nil {
			likes = append(likes, l)
		}
	}
	slices.SortFunc(likes, func(a, b *model.Like) int { return cmp.Compare(b.ID, a.ID) })

	ids := make([]uint, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, *l.VideoID)
	}
	return ids, nil
}

// Disliked reports whether userID currently dislikes videoID.
func (r *LikeRepo) Disliked(videoID, userID uint) bool {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	for _, d := range r.s.dislikes {
		if d.VideoID == videoID && d.DislikedByID == userID {
			return true
		}
	}
	return false
}

type SubscriptionRepo struct {
	s *Store
}

func (r *SubscriptionRepo) Find(_ context.Context, subscriberID, channelID uint) (*model.Subscription, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	for _, sub := range r.s.subscriptions {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			out := *sub
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *SubscriptionRepo) Create(_ context.Context, sub *model.Subscription) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if err := r.s.takeFailure(); err != nil {
		return err
	}
	for _, existing := range r.s.subscriptions {
		if existing.SubscriberID == sub.SubscriberID && existing.ChannelID == sub.ChannelID {
			return gorm.ErrDuplicatedKey
		}
	}
	sub.ID, sub.CreatedAt = r.s.id()
	stored := *sub
	r.s.subscriptions[sub.ID] = &stored
	return nil
}

func (r *SubscriptionRepo) Delete(_ context.Context, id uint) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if _, ok := r.s.subscriptions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.subscriptions, id)
	return nil
}

func (r *SubscriptionRepo) collect(match func(sub *model.Subscription) bool) []model.Subscription {
	out := []model.Subscription{}
	for _, sub := range r.s.subscriptions {
		if match(sub) {
			cp := *sub
			cp.Subscriber = r.s.ownerOf(sub.SubscriberID)
			cp.Channel = r.s.ownerOf(sub.ChannelID)
			out = append(out, cp)
		}
	}
	slices.SortFunc(out, func(a, b model.Subscription) int { return cmp.Compare(b.ID, a.ID) })
	return out
}

func (r *SubscriptionRepo) ListSubscribers(_ context.Context, channelID uint) ([]model.Subscription, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()
	return r.collect(func(sub *model.Subscription) bool { return sub.ChannelID == channelID }), nil
}

func (r *SubscriptionRepo) ListChannels(_ context.Context, subscriberID uint) ([]model.Subscription, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()
	return r.collect(func(sub *model.Subscription) bool { return sub.SubscriberID == subscriberID }), nil
}

func (r *SubscriptionRepo) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	subs, err := r.ListSubscribers(ctx, channelID)
	return int64(len(subs)), err
}

func (r *SubscriptionRepo) CountChannels(ctx context.Context, subscriberID uint) (int64, error) {
	subs, err := r.ListChannels(ctx, subscriberID)
	return int64(len(subs)), err
}

type PlaylistRepo struct {
	s *Store
}

func (r *PlaylistRepo) Create(_ context.Context, playlist *model.Playlist) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if err := r.s.takeFailure(); err != nil {
		return err
	}
	playlist.ID, playlist.CreatedAt = r.s.id()
	playlist.UpdatedAt = playlist.CreatedAt
	stored := *playlist
	stored.Videos = nil
	r.s.playlists[playlist.ID] = &stored
	return nil
}

func (r *PlaylistRepo) withVideos(p *model.Playlist) model.Playlist {
	out := *p
	out.Videos = []model.Video{}
	for _, vid := range r.s.playlistItems[p.ID] {
		if v, ok := r.s.videos[vid]; ok {
			out.Videos = append(out.Videos, r.s.videoCopy(v))
		}
	}
	return out
}

func (r *PlaylistRepo) GetByID(_ context.Context, id uint) (*model.Playlist, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	p, ok := r.s.playlists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := r.withVideos(p)
	return &out, nil
}

func (r *PlaylistRepo) ListByOwner(_ context.Context, ownerID uint) ([]model.Playlist, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	out := []model.Playlist{}
	for _, p := range r.s.playlists {
		if p.OwnerID == ownerID {
			out = append(out, r.withVideos(p))
		}
	}
	slices.SortFunc(out, func(a, b model.Playlist) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}

func (r *PlaylistRepo) Update(_ context.Context, id uint, name, description string) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	p, ok := r.s.playlists[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name != "" {
		p.Name = name
	}
	if description != "" {
		p.Description = description
	}
	return nil
}

func (r *PlaylistRepo) Delete(_ context.Context, id uint) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if _, ok := r.s.playlists[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.playlists, id)
	delete(r.s.playlistItems, id)
	return nil
}

func (r *PlaylistRepo) AddVideo(_ context.Context, playlistID, videoID uint) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if !slices.Contains(r.s.playlistItems[playlistID], videoID) {
		r.s.playlistItems[playlistID] = append(r.s.playlistItems[playlistID], videoID)
	}
	return nil
}

func (r *PlaylistRepo) RemoveVideo(_ context.Context, playlistID, videoID uint) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	r.s.playlistItems[playlistID] = slices.DeleteFunc(r.s.playlistItems[playlistID], func(v uint) bool { return v == videoID })
	return nil
}

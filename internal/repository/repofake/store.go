// Package repofake holds in-memory implementations of the repository interfaces for tests.
package repofake

import (
	"sync"
	"time"

	"github.com/Payphone-Digital/videotube/internal/model"
)

// Store backs every fake repository so preloads (video owner, subscription channel) resolve
// against the same data the way joins do in the database.
type Store struct {
	lock sync.RWMutex

	nextID        uint
	users         map[uint]*model.User
	videos        map[uint]*model.Video
	comments      map[uint]*model.Comment
	likes         map[uint]*model.Like
	dislikes      map[uint]*model.Dislike
	subscriptions map[uint]*model.Subscription
	playlists     map[uint]*model.Playlist
	playlistItems map[uint][]uint

	// FailNext, when set, is returned once by the next mutating call.
	FailNext error
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uint]*model.User),
		videos:        make(map[uint]*model.Video),
		comments:      make(map[uint]*model.Comment),
		likes:         make(map[uint]*model.Like),
		dislikes:      make(map[uint]*model.Dislike),
		subscriptions: make(map[uint]*model.Subscription),
		playlists:     make(map[uint]*model.Playlist),
		playlistItems: make(map[uint][]uint),
	}
}

// id hands out strictly increasing ids and timestamps; callers hold the write lock.
func (s *Store) id() (uint, time.Time) {
	s.nextID++
	return s.nextID, time.Unix(1_700_000_000, 0).Add(time.Duration(s.nextID) * time.Second)
}

func (s *Store) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

func (s *Store) Users() *UserRepo                 { return &UserRepo{s: s} }
func (s *Store) Videos() *VideoRepo               { return &VideoRepo{s: s} }
func (s *Store) Comments() *CommentRepo           { return &CommentRepo{s: s} }
func (s *Store) Likes() *LikeRepo                 { return &LikeRepo{s: s} }
func (s *Store) Subscriptions() *SubscriptionRepo { return &SubscriptionRepo{s: s} }
func (s *Store) Playlists() *PlaylistRepo         { return &PlaylistRepo{s: s} }

func (s *Store) ownerOf(id uint) model.User {
	if u, ok := s.users[id]; ok {
		return *u
	}
	return model.User{}
}

func (s *Store) videoCopy(v *model.Video) model.Video {
	out := *v
	out.Tags = append([]string(nil), v.Tags...)
	out.Owner = s.ownerOf(v.OwnerID)
	return out
}

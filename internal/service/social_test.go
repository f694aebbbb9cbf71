package service

import (
	"context"
	"testing"

	"github.com/Payphone-Digital/videotube/internal/constants"
	"github.com/Payphone-Digital/videotube/internal/dto"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/internal/repository/repofake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentService_Lifecycle(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	carol := e.register(t, "carol")
	ctx := context.Background()
	video := e.publish(t, alice.ID, "Talk", "")

	_, err := e.comments.AddComment(ctx, bob.ID, video.ID, "   ")
	assert.Equal(t, constants.MsgCommentContentRequired, apperrors.GetErrorMessage(err))

	_, err = e.comments.AddComment(ctx, bob.ID, 999, "hello")
	assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)

	first, err := e.comments.AddComment(ctx, bob.ID, video.ID, "first!")
	require.NoError(t, err)
	assert.Equal(t, "bob", first.Owner.Username)
	second, err := e.comments.AddComment(ctx, carol.ID, video.ID, "second")
	require.NoError(t, err)

	list, err := e.comments.ListComments(ctx, 0, video.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalComments)
	assert.Equal(t, 1, list.TotalPages)
	assert.Equal(t, second.ID, list.Comments[0].ID)

	_, err = e.comments.UpdateComment(ctx, alice.ID, first.ID, "edited by video owner")
	assert.Equal(t, constants.MsgCommentUpdateForbidden, apperrors.GetErrorMessage(err))

	edited, err := e.comments.UpdateComment(ctx, bob.ID, first.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)

	err = e.comments.DeleteComment(ctx, carol.ID, first.ID)
	assert.Equal(t, 403, apperrors.ToHTTPStatus(err))
	assert.Equal(t, constants.MsgCommentDeleteForbidden, apperrors.GetErrorMessage(err))

	// the video owner moderates comments under their video
	require.NoError(t, e.comments.DeleteComment(ctx, alice.ID, first.ID))
	require.NoError(t, e.comments.DeleteComment(ctx, carol.ID, second.ID))

	err = e.comments.DeleteComment(ctx, carol.ID, second.ID)
	assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
}

func TestLikeService_VideoLikesAndDislikes(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	ctx := context.Background()
	video := e.publish(t, alice.ID, "Likeable", "")
	likes := e.store.Likes()

	require.NoError(t, e.likes.DislikeVideo(ctx, bob.ID, video.ID))
	require.NoError(t, e.likes.DislikeVideo(ctx, bob.ID, video.ID))
	assert.True(t, likes.Disliked(video.ID, bob.ID))

	res, err := e.likes.ToggleVideoLike(ctx, bob.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	require.NotNil(t, res.Like)
	assert.Equal(t, video.ID, *res.Like.VideoID)
	assert.False(t, likes.Disliked(video.ID, bob.ID))

	liked, err := e.likes.LikedVideos(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "Likeable", liked[0].Title)

	res, err = e.likes.ToggleVideoLike(ctx, bob.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)

	liked, err = e.likes.LikedVideos(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, liked)

	_, err = e.likes.ToggleVideoLike(ctx, bob.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
}

func TestLikeService_ToggleCommentLike(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	ctx := context.Background()
	video := e.publish(t, alice.ID, "Talk", "")
	comment, err := e.comments.AddComment(ctx, alice.ID, video.ID, "pinned")
	require.NoError(t, err)

	res, err := e.likes.ToggleCommentLike(ctx, alice.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, comment.ID, *res.Like.CommentID)

	res, err = e.likes.ToggleCommentLike(ctx, alice.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)

	_, err = e.likes.ToggleCommentLike(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
}

func TestSubscriptionService_Toggle(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	ctx := context.Background()

	_, err := e.subs.ToggleSubscription(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfSubscription)

	_, err = e.subs.ToggleSubscription(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrChannelNotFound)

	res, err := e.subs.ToggleSubscription(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, res.Subscribed)

	subscribers, err := e.subs.ChannelSubscribers(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, subscribers, 1)
	assert.Equal(t, dto.SubscriberResponse{SubscriberID: bob.ID, Fullname: bob.Fullname, Username: "bob", Avatar: bob.Avatar}, subscribers[0])

	channels, err := e.subs.SubscribedChannels(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, alice.ID, channels[0].ChannelID)

	res, err = e.subs.ToggleSubscription(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, res.Subscribed)

	subscribers, err = e.subs.ChannelSubscribers(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, subscribers)
}

func TestPlaylistService_Lifecycle(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	ctx := context.Background()
	video := e.publish(t, alice.ID, "Track", "")

	_, err := e.lists.CreatePlaylist(ctx, alice.ID, dto.CreatePlaylistRequest{Name: "Mix"})
	assert.Equal(t, constants.MsgPlaylistFieldsMissing, apperrors.GetErrorMessage(err))

	playlist, err := e.lists.CreatePlaylist(ctx, alice.ID, dto.CreatePlaylistRequest{Name: "Mix", Description: "favourites"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, playlist.OwnerID)
	assert.Empty(t, playlist.Videos)

	_, err = e.lists.AddVideo(ctx, bob.ID, playlist.ID, video.ID)
	assert.Equal(t, 403, apperrors.ToHTTPStatus(err))

	_, err = e.lists.AddVideo(ctx, alice.ID, playlist.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)

	_, err = e.lists.AddVideo(ctx, alice.ID, playlist.ID, video.ID)
	require.NoError(t, err)
	withVideo, err := e.lists.AddVideo(ctx, alice.ID, playlist.ID, video.ID)
	require.NoError(t, err)
	require.Len(t, withVideo.Videos, 1)
	assert.Equal(t, dto.VideoSummary{ID: video.ID, Title: "Track", Thumbnail: video.Thumbnail}, withVideo.Videos[0])

	renamed, err := e.lists.UpdatePlaylist(ctx, alice.ID, playlist.ID, dto.UpdatePlaylistRequest{Name: "Road trip"})
	require.NoError(t, err)
	assert.Equal(t, "Road trip", renamed.Name)
	assert.Equal(t, "favourites", renamed.Description)

	_, err = e.lists.UpdatePlaylist(ctx, bob.ID, playlist.ID, dto.UpdatePlaylistRequest{Name: "Mine now"})
	assert.Equal(t, constants.MsgPlaylistForbidden, apperrors.GetErrorMessage(err))

	emptied, err := e.lists.RemoveVideo(ctx, alice.ID, playlist.ID, video.ID)
	require.NoError(t, err)
	assert.Empty(t, emptied.Videos)

	lists, err := e.lists.UserPlaylists(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, lists, 1)

	err = e.lists.DeletePlaylist(ctx, bob.ID, playlist.ID)
	assert.Equal(t, 403, apperrors.ToHTTPStatus(err))
	require.NoError(t, e.lists.DeletePlaylist(ctx, alice.ID, playlist.ID))

	_, err = e.lists.GetPlaylist(ctx, alice.ID, playlist.ID)
	assert.ErrorIs(t, err, apperrors.ErrPlaylistNotFound)
}

func TestUnpublishedVideo_HiddenFromOtherUsers(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	ctx := context.Background()
	video := e.publish(t, alice.ID, "Draft", "")

	// bob interacts while the video is public
	_, err := e.videos.GetVideo(ctx, video.ID, bob.ID)
	require.NoError(t, err)
	_, err = e.likes.ToggleVideoLike(ctx, bob.ID, video.ID)
	require.NoError(t, err)
	comment, err := e.comments.AddComment(ctx, bob.ID, video.ID, "nice")
	require.NoError(t, err)
	bobList, err := e.lists.CreatePlaylist(ctx, bob.ID, dto.CreatePlaylistRequest{Name: "Later", Description: "watch later"})
	require.NoError(t, err)
	_, err = e.lists.AddVideo(ctx, bob.ID, bobList.ID, video.ID)
	require.NoError(t, err)

	toggled, err := e.videos.TogglePublish(ctx, alice.ID, video.ID)
	require.NoError(t, err)
	require.False(t, toggled.IsPublished)

	t.Run("comments", func(t *testing.T) {
		_, err := e.comments.AddComment(ctx, bob.ID, video.ID, "still here?")
		assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
		_, err = e.comments.ListComments(ctx, bob.ID, video.ID, 1, 10)
		assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
		_, err = e.comments.ListComments(ctx, 0, video.ID, 1, 10)
		assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)

		own, err := e.comments.ListComments(ctx, alice.ID, video.ID, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), own.TotalComments)
	})

	t.Run("likes", func(t *testing.T) {
		_, err := e.likes.ToggleVideoLike(ctx, bob.ID, video.ID)
		assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)
		assert.ErrorIs(t, e.likes.DislikeVideo(ctx, bob.ID, video.ID), apperrors.ErrVideoNotFound)
		_, err = e.likes.ToggleCommentLike(ctx, bob.ID, comment.ID)
		assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)

		liked, err := e.likes.LikedVideos(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, liked)

		res, err := e.likes.ToggleVideoLike(ctx, alice.ID, video.ID)
		require.NoError(t, err)
		assert.True(t, res.Liked)
		liked, err = e.likes.LikedVideos(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, liked, 1)
	})

	t.Run("playlists", func(t *testing.T) {
		_, err := e.lists.AddVideo(ctx, bob.ID, bobList.ID, video.ID)
		assert.ErrorIs(t, err, apperrors.ErrVideoNotFound)

		got, err := e.lists.GetPlaylist(ctx, bob.ID, bobList.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Videos)

		lists, err := e.lists.UserPlaylists(ctx, 0, bob.ID)
		require.NoError(t, err)
		require.Len(t, lists, 1)
		assert.Empty(t, lists[0].Videos)

		aliceList, err := e.lists.CreatePlaylist(ctx, alice.ID, dto.CreatePlaylistRequest{Name: "Drafts", Description: "unreleased"})
		require.NoError(t, err)
		withDraft, err := e.lists.AddVideo(ctx, alice.ID, aliceList.ID, video.ID)
		require.NoError(t, err)
		assert.Len(t, withDraft.Videos, 1)

		seenByBob, err := e.lists.GetPlaylist(ctx, bob.ID, aliceList.ID)
		require.NoError(t, err)
		assert.Empty(t, seenByBob.Videos)
	})

	t.Run("watch history", func(t *testing.T) {
		history, err := e.users.GetWatchHistory(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("views", func(t *testing.T) {
		assert.ErrorIs(t, e.videos.AddView(ctx, video.ID, "10.0.0.9"), apperrors.ErrVideoNotFound)
	})
}

// racingLikes misses the first lookup, like a request that read before a concurrent like committed.
type racingLikes struct {
	*repofake.LikeRepo
	missed bool
}

func (r *racingLikes) FindVideoLike(ctx context.Context, videoID, userID uint) (*model.Like, error) {
	if !r.missed {
		r.missed = true
		return nil, gorm.ErrRecordNotFound
	}
	return r.LikeRepo.FindVideoLike(ctx, videoID, userID)
}

type racingSubscriptions struct {
	*repofake.SubscriptionRepo
	missed bool
}

func (r *racingSubscriptions) Find(ctx context.Context, subscriberID, channelID uint) (*model.Subscription, error) {
	if !r.missed {
		r.missed = true
		return nil, gorm.ErrRecordNotFound
	}
	return r.SubscriptionRepo.Find(ctx, subscriberID, channelID)
}

func TestLikeService_ConcurrentLikeKeepsOneRow(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	ctx := context.Background()
	video := e.publish(t, alice.ID, "Popular", "")

	first, err := e.likes.ToggleVideoLike(ctx, bob.ID, video.ID)
	require.NoError(t, err)

	racing := NewLikeService(&racingLikes{LikeRepo: e.store.Likes()}, e.store.Videos(), e.store.Comments())
	second, err := racing.ToggleVideoLike(ctx, bob.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, second.Liked)
	require.NotNil(t, second.Like)
	assert.Equal(t, first.Like.ID, second.Like.ID)

	liked, err := e.likes.LikedVideos(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, liked, 1)
}

func TestSubscriptionService_ConcurrentSubscribeKeepsOneRow(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	ctx := context.Background()

	_, err := e.subs.ToggleSubscription(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	racing := NewSubscriptionService(&racingSubscriptions{SubscriptionRepo: e.store.Subscriptions()}, e.store.Users())
	res, err := racing.ToggleSubscription(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, res.Subscribed)

	subscribers, err := e.subs.ChannelSubscribers(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, subscribers, 1)
}

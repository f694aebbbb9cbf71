package service

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/videotube/internal/dto"
	apperrors "github.com/Payphone-Digital/videotube/internal/errors"
	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/internal/repository"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"gorm.io/gorm"
)

type SubscriptionService struct {
	repoSub  repository.SubscriptionStore
	repoUser repository.UserStore
}

func NewSubscriptionService(repoSub repository.SubscriptionStore, repoUser repository.UserStore) *SubscriptionService {
	return &SubscriptionService{
		repoSub:  repoSub,
		repoUser: repoUser,
	}
}

// ToggleSubscription subscribes actor to channelID, or unsubscribes when already subscribed.
func (s *SubscriptionService) ToggleSubscription(ctx context.Context, actor, channelID uint) (*dto.SubscriptionToggleResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ToggleSubscription")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	if _, err := s.repoUser.GetByID(ctx, channelID); err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if actor == channelID {
		return nil, apperrors.ErrSelfSubscription
	}

	existing, err := s.repoSub.Find(ctx, actor, channelID)
	if err != nil && !isNotFound(err) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if existing != nil {
		if err := s.repoSub.Delete(ctx, existing.ID); err != nil && !isNotFound(err) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		logger.InfoWithContext(ctx, "Unsubscribed").
			ChannelID(channelID).
			Log()
		return &dto.SubscriptionToggleResponse{Subscribed: false}, nil
	}

	sub := &model.Subscription{SubscriberID: actor, ChannelID: channelID}
	if err := s.repoSub.Create(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.InfoWithContext(ctx, "Already subscribed").
				ChannelID(channelID).
				Log()
			return &dto.SubscriptionToggleResponse{Subscribed: true}, nil
		}
		logger.ErrorWithContext(ctx, "Failed to subscribe").
			ChannelID(channelID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Subscribed").
		ChannelID(channelID).
		Log()
	return &dto.SubscriptionToggleResponse{Subscribed: true}, nil
}

func (s *SubscriptionService) ChannelSubscribers(ctx context.Context, channelID uint) ([]dto.SubscriberResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ChannelSubscribers")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	subs, err := s.repoSub.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := make([]dto.SubscriberResponse, 0, len(subs))
	for _, sub := range subs {
		res = append(res, dto.SubscriberResponse{
			SubscriberID: sub.SubscriberID,
			Fullname:     sub.Subscriber.Fullname,
			Username:     sub.Subscriber.Username,
			Avatar:       sub.Subscriber.Avatar,
		})
	}
	return res, nil
}

func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID uint) ([]dto.SubscribedChannelResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SubscribedChannels")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	subs, err := s.repoSub.ListChannels(ctx, subscriberID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := make([]dto.SubscribedChannelResponse, 0, len(subs))
	for _, sub := range subs {
		res = append(res, dto.SubscribedChannelResponse{
			ChannelID:  sub.ChannelID,
			Fullname:   sub.Channel.Fullname,
			Username:   sub.Channel.Username,
			Avatar:     sub.Channel.Avatar,
			CoverImage: sub.Channel.CoverImage,
		})
	}
	return res, nil
}

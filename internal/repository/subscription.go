package repository

import (
	"context"

	"github.com/Payphone-Digital/videotube/internal/model"
	ctxutil "github.com/Payphone-Digital/videotube/pkg/context"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Find(ctx context.Context, subscriberID, channelID uint) (*model.Subscription, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Find")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var sub model.Subscription
	result := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&sub)
	if result.Error != nil {
		return nil, result.Error
	}

	return &sub, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(sub).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create subscription").
			Uint("subscriber_id", sub.SubscriberID).
			ChannelID(sub.ChannelID).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Subscription created").
		Uint("subscriber_id", sub.SubscriberID).
		ChannelID(sub.ChannelID).
		Log()

	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Delete")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	result := r.db.WithContext(ctx).Delete(&model.Subscription{}, id)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete subscription").
			Uint("subscription_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID uint) ([]model.Subscription, error) {
	return r.list(ctx, "ListSubscribers", "Subscriber", "channel_id = ?", channelID)
}

func (r *SubscriptionRepository) ListChannels(ctx context.Context, subscriberID uint) ([]model.Subscription, error) {
	return r.list(ctx, "ListChannels", "Channel", "subscriber_id = ?", subscriberID)
}

func (r *SubscriptionRepository) list(ctx context.Context, function, preload, where string, id uint) ([]model.Subscription, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, function)
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var subs []model.Subscription
	err := r.db.WithContext(ctx).
		Preload(preload).
		Where(where, id).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list subscriptions").
			Uint("id", id).
			Err(err).
			Log()
		return nil, err
	}

	return subs, nil
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	return r.count(ctx, "CountSubscribers", "channel_id = ?", channelID)
}

func (r *SubscriptionRepository) CountChannels(ctx context.Context, subscriberID uint) (int64, error) {
	return r.count(ctx, "CountChannels", "subscriber_id = ?", subscriberID)
}

func (r *SubscriptionRepository) count(ctx context.Context, function, where string, id uint) (int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, function)
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where(where, id).Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count subscriptions").
			Uint("id", id).
			Err(err).
			Log()
		return 0, err
	}

	return total, nil
}

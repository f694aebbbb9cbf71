package model

import "time"

type Subscription struct {
	ID           uint      `gorm:"primarykey"`
	SubscriberID uint      `gorm:"column:subscriber_id;not null;uniqueIndex:idx_subscriptions_pair"`
	ChannelID    uint      `gorm:"column:channel_id;not null;uniqueIndex:idx_subscriptions_pair;index:idx_subscriptions_channel_id"`
	Subscriber   User      `gorm:"foreignKey:SubscriberID"`
	Channel      User      `gorm:"foreignKey:ChannelID"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

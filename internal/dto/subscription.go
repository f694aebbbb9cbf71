package dto

type SubscriberResponse struct {
	SubscriberID uint   `json:"subscriberId"`
	Fullname     string `json:"fullname"`
	Username     string `json:"username"`
	Avatar       string `json:"avatar"`
}

type SubscribedChannelResponse struct {
	ChannelID  uint   `json:"channelId"`
	Fullname   string `json:"fullname"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverImage"`
}

type SubscriptionToggleResponse struct {
	Subscribed bool `json:"subscribed"`
}

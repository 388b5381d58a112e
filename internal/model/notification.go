package model

import "time"

// NotificationType 是通知类型的封闭枚举
type NotificationType string

const (
	NotificationLike   NotificationType = "LIKE"
	NotificationFollow NotificationType = "FOLLOW"
	NotificationReply  NotificationType = "REPLY"
	NotificationRepost NotificationType = "REPOST"
	NotificationQuote  NotificationType = "QUOTE"
	NotificationAdmin  NotificationType = "ADMIN"
)

// Valid 判断类型是否在枚举范围内
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationFollow, NotificationReply,
		NotificationRepost, NotificationQuote, NotificationAdmin:
		return true
	}
	return false
}

// Icon 返回每种类型固定的前端图标名
// 用显式匹配替代按字符串动态分发
func (t NotificationType) Icon() string {
	switch t {
	case NotificationLike:
		return "heart"
	case NotificationFollow:
		return "follow"
	case NotificationReply:
		return "reply2"
	case NotificationRepost:
		return "repost2"
	case NotificationQuote:
		return "quote2"
	case NotificationAdmin:
		return ""
	default:
		return ""
	}
}

// Notification 结构体表示通知模型
// IsPublic 且类型为 ADMIN 时是对所有人的广播
type Notification struct {
	ID             string           `json:"id"`
	Type           NotificationType `json:"type"`
	Message        string           `json:"message"`
	IsPublic       bool             `json:"isPublic"`
	SenderUserID   string           `json:"senderUserId"`
	ReceiverUserID string           `json:"receiverUserId"`
	PostID         *string          `json:"postId,omitempty"`
	Read           bool             `json:"read"`
	CreatedAt      time.Time        `json:"createdAt"`

	SenderUser *User `json:"senderUser,omitempty"`
	Post       *Post `json:"post,omitempty"`
}

// NotificationView 是投影后的响应结构，接收者恒为查看者因此被省略
type NotificationView struct {
	ID         string           `json:"id"`
	CreatedAt  time.Time        `json:"createdAt"`
	Type       NotificationType `json:"type"`
	Icon       string           `json:"icon"`
	Message    string           `json:"message"`
	Read       bool             `json:"read"`
	Post       *Post            `json:"post,omitempty"`
	SenderUser *User            `json:"senderUser,omitempty"`
}

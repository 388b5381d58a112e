package model

import "time"

// Privacy 表示账号的隐私级别
type Privacy string

const (
	PrivacyPublic  Privacy = "PUBLIC"
	PrivacyPrivate Privacy = "PRIVATE"
)

// User 结构体表示用户模型
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Fullname     string    `json:"fullname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // 密码哈希不应在JSON中暴露
	Image        string    `json:"image"`
	Bio          string    `json:"bio"`
	Link         string    `json:"link"`
	Privacy      Privacy   `json:"privacy"`
	Verified     bool      `json:"verified"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// 关注关系，按需加载
	Followers []*User `json:"followers,omitempty"`
	Following []*User `json:"following,omitempty"`
}

// Follow 表示一条关注边（关系记录）
type Follow struct {
	FollowerID string    `json:"followerId"`
	FollowedID string    `json:"followedId"`
	CreatedAt  time.Time `json:"createdAt"`
}

package model

import "time"

// PostPrivacy 表示帖子的回复权限
type PostPrivacy string

const (
	PostPrivacyAnyone   PostPrivacy = "ANYONE"
	PostPrivacyFollowed PostPrivacy = "FOLLOWED"
)

// Post 结构体表示帖子模型
// ParentPostID 非空时是一条回复，QuoteID 非空时引用了另一条帖子
type Post struct {
	ID           string      `json:"id"`
	AuthorID     string      `json:"authorId"`
	Text         string      `json:"text"`
	Images       []string    `json:"images"`
	Privacy      PostPrivacy `json:"privacy"`
	ParentPostID *string     `json:"parentPostId"`
	QuoteID      *string     `json:"quoteId"`
	CreatedAt    time.Time   `json:"createdAt"`

	Author     *User   `json:"author,omitempty"`
	ParentPost *Post   `json:"parentPost,omitempty"`
	Likes      []*Like `json:"likes,omitempty"`
	Replies    []*Post `json:"replies,omitempty"`
	Reposts    []*Repost `json:"reposts,omitempty"`

	LikeCount  int `json:"likeCount"`
	ReplyCount int `json:"replyCount"`
}

// Like 是 (post, user) 的关系记录，存在即表示已点赞
type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repost 是 (post, user) 的关系记录，存在即表示已转发
type Repost struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Post      *Post     `json:"post,omitempty"`
}

// FeedCursor 是游标分页的位置：上一页最后一条的 (createdAt, id)
type FeedCursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

package model

// SystemStats 系统统计数据
type SystemStats struct {
	TotalUsers         int `json:"total_users"`
	TotalPosts         int `json:"total_posts"`
	TotalLikes         int `json:"total_likes"`
	TotalReposts       int `json:"total_reposts"`
	TotalNotifications int `json:"total_notifications"`
}

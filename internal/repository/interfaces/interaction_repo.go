package interfaces

import "threads-backend/internal/model"

// InteractionRepository 定义了点赞/转发/关注三种切换操作的存储接口
// 每个 Toggle 在单个事务内完成存在性判定、关系记录的增删和配对通知的增删，
// 避免两次网络往返带来的读写竞争
type InteractionRepository interface {
	// ToggleLike 切换点赞状态，notification 为 nil 时不产生配对通知
	// 返回切换后是否处于点赞状态
	ToggleLike(like *model.Like, notification *model.Notification) (bool, error)
	ToggleRepost(repost *model.Repost, notification *model.Notification) (bool, error)
	ToggleFollow(follow *model.Follow, notification *model.Notification) (bool, error)

	IsFollowing(followerID, followedID string) (bool, error)
	// CountFollowers 统计关注某用户的人数，关注状态接口随 following 一并返回
	CountFollowers(userID string) (int, error)
	// CountLikes / CountReposts 供系统统计使用
	CountLikes() (int, error)
	CountReposts() (int, error)
}

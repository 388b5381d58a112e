package service

import (
	"threads-backend/internal/errors"
	"threads-backend/internal/model"
	"threads-backend/internal/repository/interfaces"
	"threads-backend/internal/util"

	"go.uber.org/zap"
)

// InteractionService 处理点赞、转发、关注三种切换操作
// 自己对自己的动作不产生通知，配对通知的增删由存储层在同一事务内完成
type InteractionService struct {
	interactionRepo interfaces.InteractionRepository
	postRepo        interfaces.PostRepository
	userRepo        interfaces.UserRepository
}

// NewInteractionService 创建一个新的 InteractionService 实例
func NewInteractionService(
	interactionRepo interfaces.InteractionRepository,
	postRepo interfaces.PostRepository,
	userRepo interfaces.UserRepository,
) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
		userRepo:        userRepo,
	}
}

// ToggleLike 切换点赞状态，返回切换后是否已点赞
func (s *InteractionService) ToggleLike(actorID, postID string) (bool, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return false, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	like := &model.Like{PostID: postID, UserID: actorID}
	var notification *model.Notification
	if post.AuthorID != actorID {
		notification = &model.Notification{
			Type:           model.NotificationLike,
			SenderUserID:   actorID,
			ReceiverUserID: post.AuthorID,
			PostID:         &postID,
			Message:        post.Text,
		}
	}

	active, err := s.interactionRepo.ToggleLike(like, notification)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "切换点赞状态失败", err)
	}
	return active, nil
}

// ToggleRepost 切换转发状态，返回切换后是否已转发
func (s *InteractionService) ToggleRepost(actorID, postID string) (bool, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return false, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	repost := &model.Repost{PostID: postID, UserID: actorID}
	var notification *model.Notification
	if post.AuthorID != actorID {
		notification = &model.Notification{
			Type:           model.NotificationRepost,
			SenderUserID:   actorID,
			ReceiverUserID: post.AuthorID,
			PostID:         &postID,
			Message:        post.Text,
		}
	}

	active, err := s.interactionRepo.ToggleRepost(repost, notification)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "切换转发状态失败", err)
	}
	return active, nil
}

// ToggleFollow 切换关注状态，返回切换后是否已关注
// 关注自己不发通知，与其余几类自身动作保持一致
func (s *InteractionService) ToggleFollow(actorID, targetID string) (bool, error) {
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if target == nil {
		return false, errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	follow := &model.Follow{FollowerID: actorID, FollowedID: targetID}
	var notification *model.Notification
	if targetID != actorID {
		notification = &model.Notification{
			Type:           model.NotificationFollow,
			SenderUserID:   actorID,
			ReceiverUserID: targetID,
			Message:        "Followed you",
		}
	}

	active, err := s.interactionRepo.ToggleFollow(follow, notification)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "切换关注状态失败", err)
	}
	util.Logger.Info("关注状态已切换",
		zap.String("follower_id", actorID),
		zap.String("followed_id", targetID),
		zap.Bool("active", active))
	return active, nil
}

// IsFollowing 查询关注关系
func (s *InteractionService) IsFollowing(followerID, followedID string) (bool, error) {
	return s.interactionRepo.IsFollowing(followerID, followedID)
}

// FollowStatus 返回当前的关注关系和目标用户的关注者人数
func (s *InteractionService) FollowStatus(followerID, followedID string) (bool, int, error) {
	following, err := s.interactionRepo.IsFollowing(followerID, followedID)
	if err != nil {
		return false, 0, errors.Wrap(errors.ErrDatabase, "查询关注状态失败", err)
	}
	followers, err := s.interactionRepo.CountFollowers(followedID)
	if err != nil {
		return false, 0, errors.Wrap(errors.ErrDatabase, "统计关注者失败", err)
	}
	return following, followers, nil
}

package mysql

import (
	"database/sql"

	"threads-backend/internal/model"
	"threads-backend/internal/util"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// interactionRepository 实现了 InteractionRepository 接口
// likes/reposts/follows 三张表都带唯一索引，配合事务保证
// 存在性判定和增删在一次提交内完成
type interactionRepository struct {
	db *sql.DB
}

// NewInteractionRepository 创建一个新的 interactionRepository 实例
func NewInteractionRepository(db *sql.DB) *interactionRepository {
	return &interactionRepository{db: db}
}

// MySQL 唯一键冲突错误码
const duplicateEntryCode = 1062

func isDuplicateEntry(err error) bool {
	mysqlErr, ok := err.(*mysql.MySQLError)
	return ok && mysqlErr.Number == duplicateEntryCode
}

// ToggleLike 切换点赞状态，返回切换后是否处于点赞状态
func (r *interactionRepository) ToggleLike(like *model.Like, notification *model.Notification) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// 先尝试删除，删到了说明之前是点赞状态
	result, err := tx.Exec(`DELETE FROM likes WHERE post_id = ? AND user_id = ?`, like.PostID, like.UserID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if affected > 0 {
		if err := deletePairedNotification(tx, like.UserID, like.PostID, model.NotificationLike); err != nil {
			return false, err
		}
		if err := tx.Commit(); err != nil {
			return false, err
		}
		util.Logger.Info("取消点赞", zap.String("post_id", like.PostID), zap.String("user_id", like.UserID))
		return false, nil
	}

	if like.ID == "" {
		like.ID = uuid.NewString()
	}
	_, err = tx.Exec(`INSERT INTO likes (id, post_id, user_id, created_at) VALUES (?, ?, ?, NOW())`,
		like.ID, like.PostID, like.UserID)
	if err != nil {
		// 并发切换落到了同一侧，唯一索引兜底，视为已处于点赞状态
		if isDuplicateEntry(err) {
			return true, nil
		}
		return false, err
	}

	if notification != nil {
		if err := insertNotification(tx, notification); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	util.Logger.Info("点赞成功", zap.String("post_id", like.PostID), zap.String("user_id", like.UserID))
	return true, nil
}

// ToggleRepost 切换转发状态，返回切换后是否处于转发状态
func (r *interactionRepository) ToggleRepost(repost *model.Repost, notification *model.Notification) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM reposts WHERE post_id = ? AND user_id = ?`, repost.PostID, repost.UserID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if affected > 0 {
		if err := deletePairedNotification(tx, repost.UserID, repost.PostID, model.NotificationRepost); err != nil {
			return false, err
		}
		if err := tx.Commit(); err != nil {
			return false, err
		}
		util.Logger.Info("取消转发", zap.String("post_id", repost.PostID), zap.String("user_id", repost.UserID))
		return false, nil
	}

	if repost.ID == "" {
		repost.ID = uuid.NewString()
	}
	_, err = tx.Exec(`INSERT INTO reposts (id, post_id, user_id, created_at) VALUES (?, ?, ?, NOW())`,
		repost.ID, repost.PostID, repost.UserID)
	if err != nil {
		if isDuplicateEntry(err) {
			return true, nil
		}
		return false, err
	}

	if notification != nil {
		if err := insertNotification(tx, notification); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	util.Logger.Info("转发成功", zap.String("post_id", repost.PostID), zap.String("user_id", repost.UserID))
	return true, nil
}

// ToggleFollow 切换关注状态，返回切换后是否处于关注状态
func (r *interactionRepository) ToggleFollow(follow *model.Follow, notification *model.Notification) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		follow.FollowerID, follow.FollowedID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if affected > 0 {
		// 关注通知没有关联帖子，按 (发送者, 接收者, 类型) 配对删除
		_, err = tx.Exec(`DELETE FROM notifications
            WHERE sender_user_id = ? AND receiver_user_id = ? AND type = ?
            ORDER BY created_at ASC LIMIT 1`,
			follow.FollowerID, follow.FollowedID, model.NotificationFollow)
		if err != nil {
			return false, err
		}
		if err := tx.Commit(); err != nil {
			return false, err
		}
		util.Logger.Info("取消关注", zap.String("follower_id", follow.FollowerID), zap.String("followed_id", follow.FollowedID))
		return false, nil
	}

	_, err = tx.Exec(`INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, NOW())`,
		follow.FollowerID, follow.FollowedID)
	if err != nil {
		if isDuplicateEntry(err) {
			return true, nil
		}
		return false, err
	}

	if notification != nil {
		if err := insertNotification(tx, notification); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	util.Logger.Info("关注成功", zap.String("follower_id", follow.FollowerID), zap.String("followed_id", follow.FollowedID))
	return true, nil
}

func insertNotification(tx *sql.Tx, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	_, err := tx.Exec(`INSERT INTO notifications
        (id, type, message, is_public, sender_user_id, receiver_user_id, post_id, is_read, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		n.ID, n.Type, n.Message, n.IsPublic, n.SenderUserID, n.ReceiverUserID, n.PostID, n.Read)
	return err
}

func deletePairedNotification(tx *sql.Tx, senderID, postID string, t model.NotificationType) error {
	_, err := tx.Exec(`DELETE FROM notifications
        WHERE sender_user_id = ? AND post_id = ? AND type = ?
        ORDER BY created_at ASC LIMIT 1`,
		senderID, postID, t)
	return err
}

// IsFollowing 判断 follower 是否已关注 followed
func (r *interactionRepository) IsFollowing(followerID, followedID string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID).Scan(&count)
	return count > 0, err
}

// CountFollowers 统计关注者数量
func (r *interactionRepository) CountFollowers(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE followed_id = ?`, userID).Scan(&count)
	return count, err
}

// CountLikes 统计点赞总数
func (r *interactionRepository) CountLikes() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM likes`).Scan(&count)
	return count, err
}

// CountReposts 统计转发总数
func (r *interactionRepository) CountReposts() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM reposts`).Scan(&count)
	return count, err
}

package mysql

import (
	"database/sql"
	"log"

	"threads-backend/internal/model"

	"github.com/google/uuid"
)

// notificationRepository 实现了 NotificationRepository 接口
type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository 创建一个新的 notificationRepository 实例
func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

// Create 创建一条通知
func (r *notificationRepository) Create(notification *model.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`INSERT INTO notifications
        (id, type, message, is_public, sender_user_id, receiver_user_id, post_id, is_read, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		notification.ID, notification.Type, notification.Message, notification.IsPublic,
		notification.SenderUserID, notification.ReceiverUserID, notification.PostID, notification.Read)
	if err != nil {
		log.Printf("创建通知失败: %v", err)
		return err
	}
	return nil
}

// ListAll 返回全部通知，按创建时间倒序，附带发送者和关联帖子
func (r *notificationRepository) ListAll() ([]*model.Notification, error) {
	rows, err := r.db.Query(`SELECT
        n.id, n.type, n.message, n.is_public, n.sender_user_id, n.receiver_user_id,
        n.post_id, n.is_read, n.created_at,
        u.id, u.username, u.fullname, u.email, u.image, u.privacy, u.verified
        FROM notifications n
        LEFT JOIN users u ON n.sender_user_id = u.id
        ORDER BY n.created_at DESC, n.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		var senderID, senderUsername, senderFullname, senderEmail, senderImage, senderPrivacy sql.NullString
		var senderVerified sql.NullBool
		err := rows.Scan(
			&n.ID, &n.Type, &n.Message, &n.IsPublic, &n.SenderUserID, &n.ReceiverUserID,
			&n.PostID, &n.Read, &n.CreatedAt,
			&senderID, &senderUsername, &senderFullname, &senderEmail, &senderImage, &senderPrivacy, &senderVerified,
		)
		if err != nil {
			return nil, err
		}
		if senderID.Valid {
			n.SenderUser = &model.User{
				ID:       senderID.String,
				Username: senderUsername.String,
				Fullname: senderFullname.String,
				Email:    senderEmail.String,
				Image:    senderImage.String,
				Privacy:  model.Privacy(senderPrivacy.String),
				Verified: senderVerified.Bool,
			}
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 关联帖子单独补全，避免 JOIN 出一整排可空列
	for _, n := range notifications {
		if n.PostID == nil {
			continue
		}
		post, err := r.findPostBrief(*n.PostID)
		if err != nil {
			return nil, err
		}
		n.Post = post
	}
	return notifications, nil
}

func (r *notificationRepository) findPostBrief(id string) (*model.Post, error) {
	var post model.Post
	err := r.db.QueryRow(`SELECT id, author_id, text, privacy, parent_post_id, quote_id, created_at
        FROM posts WHERE id = ?`, id).Scan(
		&post.ID, &post.AuthorID, &post.Text, &post.Privacy,
		&post.ParentPostID, &post.QuoteID, &post.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// MarkRead 将通知标记为已读，只有接收者本人可以标记
func (r *notificationRepository) MarkRead(id, receiverUserID string) error {
	result, err := r.db.Exec(`UPDATE notifications SET is_read = true
        WHERE id = ? AND receiver_user_id = ?`, id, receiverUserID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count 统计通知总数
func (r *notificationRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications`).Scan(&count)
	return count, err
}

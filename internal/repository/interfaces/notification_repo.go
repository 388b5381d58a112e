package interfaces

import "threads-backend/internal/model"

// NotificationRepository 定义了通知相关的数据库操作接口
type NotificationRepository interface {
	Create(notification *model.Notification) error
	// ListAll 返回全部通知并附带发送者和关联帖子，可见性过滤在服务层完成
	ListAll() ([]*model.Notification, error)
	// MarkRead 只允许接收者本人标记已读
	MarkRead(id, receiverUserID string) error
	Count() (int, error)
}

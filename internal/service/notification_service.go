package service

import (
	"database/sql"

	"threads-backend/internal/errors"
	"threads-backend/internal/model"
	"threads-backend/internal/repository/interfaces"
)

// NotificationService 负责通知的可见性过滤和投影
type NotificationService struct {
	notificationRepo interfaces.NotificationRepository
	adminUserID      string
}

// NewNotificationService 创建一个新的 NotificationService 实例
func NewNotificationService(notificationRepo interfaces.NotificationRepository, adminUserID string) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		adminUserID:      adminUserID,
	}
}

// visibleTo 判断查看者是否有权看到这条通知
// 三种情况可见：公开的管理员广播；发给本人的管理员私信；
// 他人发给本人的普通通知（自己触发的不给自己看）
func visibleTo(n *model.Notification, viewerID string) bool {
	if n.IsPublic && n.Type == model.NotificationAdmin {
		return true
	}
	if !n.IsPublic && n.Type == model.NotificationAdmin && n.ReceiverUserID == viewerID {
		return true
	}
	if !n.IsPublic && n.ReceiverUserID == viewerID && n.SenderUserID != viewerID {
		return true
	}
	return false
}

// GetNotifications 返回查看者可见的通知投影列表
func (s *NotificationService) GetNotifications(viewerID string) ([]*model.NotificationView, error) {
	notifications, err := s.notificationRepo.ListAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取通知失败", err)
	}

	views := make([]*model.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		if !visibleTo(n, viewerID) {
			continue
		}
		views = append(views, &model.NotificationView{
			ID:         n.ID,
			CreatedAt:  n.CreatedAt,
			Type:       n.Type,
			Icon:       n.Type.Icon(),
			Message:    n.Message,
			Read:       n.Read,
			Post:       n.Post,
			SenderUser: n.SenderUser,
		})
	}
	return views, nil
}

// MarkRead 将通知标记为已读，只有接收者本人可以标记
func (s *NotificationService) MarkRead(viewerID, id string) error {
	err := s.notificationRepo.MarkRead(id, viewerID)
	if err == sql.ErrNoRows {
		return errors.New(errors.ErrNotificationNotFound, "通知不存在")
	}
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "标记通知失败", err)
	}
	return nil
}

// Broadcast 以管理员身份向所有用户发送公开广播
func (s *NotificationService) Broadcast(message string) error {
	if message == "" {
		return errors.New(errors.ErrValidation, "message is required")
	}
	notification := &model.Notification{
		Type:           model.NotificationAdmin,
		IsPublic:       true,
		SenderUserID:   s.adminUserID,
		ReceiverUserID: s.adminUserID,
		Message:        message,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return errors.Wrap(errors.ErrDatabase, "发送广播失败", err)
	}
	return nil
}

// SendAdminMessage 以管理员身份向单个用户发送私信通知
func (s *NotificationService) SendAdminMessage(receiverUserID, message string) error {
	if message == "" {
		return errors.New(errors.ErrValidation, "message is required")
	}
	notification := &model.Notification{
		Type:           model.NotificationAdmin,
		IsPublic:       false,
		SenderUserID:   s.adminUserID,
		ReceiverUserID: receiverUserID,
		Message:        message,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return errors.Wrap(errors.ErrDatabase, "发送通知失败", err)
	}
	return nil
}

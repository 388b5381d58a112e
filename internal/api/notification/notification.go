package notification

import (
	"threads-backend/internal/errors"
	"threads-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 处理通知列表和已读标记请求
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler 创建一个新的 NotificationHandler 实例
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService}
}

// List 返回当前用户可见的通知
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetString("user_id")

	notifications, err := h.notificationService.GetNotifications(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"notifications": notifications}, "")
}

// MarkRead 标记一条通知为已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.notificationService.MarkRead(userID, c.Param("id")); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "已标记为已读")
}

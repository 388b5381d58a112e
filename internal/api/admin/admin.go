package admin

import (
	"threads-backend/internal/errors"
	"threads-backend/internal/middleware"
	"threads-backend/internal/service"
	"threads-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler 按功能模块组织处理方法
type AdminHandler struct {
	adminService        *service.AdminService
	notificationService *service.NotificationService
	errorMonitor        *middleware.ErrorMonitor
	errorAnalytics      *errors.ErrorAnalytics
}

// NewAdminHandler 创建一个新的 AdminHandler 实例
func NewAdminHandler(
	adminService *service.AdminService,
	notificationService *service.NotificationService,
	errorMonitor *middleware.ErrorMonitor,
	errorAnalytics *errors.ErrorAnalytics,
) *AdminHandler {
	return &AdminHandler{adminService, notificationService, errorMonitor, errorAnalytics}
}

// GetSystemStats 返回系统整体统计
func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	stats, err := h.adminService.GetSystemStats()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"stats": stats}, "")
}

// GetErrorStats 返回错误监控统计
func (h *AdminHandler) GetErrorStats(c *gin.Context) {
	errors.HandleSuccess(c, gin.H{
		"error_counts": h.errorMonitor.GetErrorCounts(),
		"analytics":    h.errorAnalytics.GetStats(),
	}, "")
}

// Broadcast 向所有用户发送公开广播通知
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var broadcastData struct {
		Message string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&broadcastData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.notificationService.Broadcast(broadcastData.Message); err != nil {
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("管理员广播已发送", zap.String("message", broadcastData.Message))
	errors.HandleSuccess(c, nil, "广播已发送")
}

// SendMessage 向单个用户发送管理员私信通知
func (h *AdminHandler) SendMessage(c *gin.Context) {
	var messageData struct {
		ReceiverUserID string `json:"receiver_user_id" binding:"required"`
		Message        string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&messageData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.notificationService.SendAdminMessage(messageData.ReceiverUserID, messageData.Message); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "通知已发送")
}

// SetUserRole 设置用户的管理员标志
func (h *AdminHandler) SetUserRole(c *gin.Context) {
	var roleData struct {
		IsAdmin bool `json:"is_admin"`
	}

	if err := c.ShouldBindJSON(&roleData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.adminService.SetUserRole(c.Param("id"), roleData.IsAdmin); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "用户角色已更新")
}

// SetUserVerified 设置用户的认证标志
func (h *AdminHandler) SetUserVerified(c *gin.Context) {
	var verifyData struct {
		Verified bool `json:"verified"`
	}

	if err := c.ShouldBindJSON(&verifyData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.adminService.SetUserVerified(c.Param("id"), verifyData.Verified); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "用户认证状态已更新")
}

// PurgeSeedData 清空非管理员用户及其内容
func (h *AdminHandler) PurgeSeedData(c *gin.Context) {
	if err := h.adminService.PurgeSeedData(); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "数据已清空")
}

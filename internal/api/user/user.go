package user

import (
	"strconv"
	"time"

	"threads-backend/internal/errors"
	"threads-backend/internal/model"
	"threads-backend/internal/service"
	"threads-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler 处理用户公开资料和个人主页标签页的请求
type UserHandler struct {
	userService service.UserServiceInterface
	postService *service.PostService
}

// NewUserHandler 创建一个新的 UserHandler 实例
func NewUserHandler(userService service.UserServiceInterface, postService *service.PostService) *UserHandler {
	return &UserHandler{userService, postService}
}

// GetUserInfo 按用户名返回公开资料和关注关系
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	username := c.Param("username")

	user, err := h.userService.GetUserInfo(username)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"user": user}, "")
}

// AllUsers 返回游标分页的用户列表
func (h *UserHandler) AllUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	cursor := parseCursor(c)

	users, nextCursor, err := h.userService.AllUsers(limit, cursor)
	if err != nil {
		util.Logger.Error("获取用户列表失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取用户列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"users":       users,
		"next_cursor": nextCursor,
	}, "")
}

// GetUserPosts 返回用户发布的顶层帖子（主页"帖子"标签）
func (h *UserHandler) GetUserPosts(c *gin.Context) {
	posts, err := h.postService.GetUserPosts(c.Param("username"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取帖子失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"posts": posts}, "")
}

// GetUserReplies 返回用户发布的回复（主页"回复"标签）
func (h *UserHandler) GetUserReplies(c *gin.Context) {
	posts, err := h.postService.GetUserReplies(c.Param("username"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取回复失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"posts": posts}, "")
}

// GetUserReposts 返回用户转发过的帖子（主页"转发"标签）
func (h *UserHandler) GetUserReposts(c *gin.Context) {
	posts, err := h.postService.GetUserReposts(c.Param("username"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取转发失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{"posts": posts}, "")
}

// parseCursor 从查询参数解析游标，缺失或格式错误时返回 nil（第一页）
func parseCursor(c *gin.Context) *model.FeedCursor {
	id := c.Query("cursor_id")
	createdAt := c.Query("cursor_created_at")
	if id == "" || createdAt == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil
	}
	return &model.FeedCursor{ID: id, CreatedAt: t}
}

package post

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

// PostHandler 处理与帖子相关的HTTP请求
type PostHandler struct {
	postService *service.PostService
}

// NewPostHandler 创建一个新的 PostHandler 实例
func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService}
}

// Create 创建帖子，可附带图片和对另一条帖子的引用
func (h *PostHandler) Create(c *gin.Context) {
	userID := c.GetString("user_id")

	var postData struct {
		Text    string            `json:"text" binding:"required"`
		Images  []string          `json:"images"`
		Privacy model.PostPrivacy `json:"privacy"`
		QuoteID *string           `json:"quoteId"`
	}

	if err := c.ShouldBindJSON(&postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	post, err := h.postService.CreatePost(userID, postData.Text, postData.Images, postData.Privacy, postData.QuoteID)
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		util.Logger.Error("创建帖子失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "创建帖子失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"post": post}, "帖子创建成功")
}

// Reply 回复一条帖子
func (h *PostHandler) Reply(c *gin.Context) {
	userID := c.GetString("user_id")
	parentPostID := c.Param("id")

	var replyData struct {
		Text    string            `json:"text" binding:"required"`
		Images  []string          `json:"images"`
		Privacy model.PostPrivacy `json:"privacy"`
	}

	if err := c.ShouldBindJSON(&replyData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	post, err := h.postService.ReplyToPost(userID, parentPostID, replyData.Text, replyData.Images, replyData.Privacy)
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, err)
			return
		}
		util.Logger.Error("创建回复失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "创建回复失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"post": post}, "回复成功")
}

// Feed 返回顶层帖子的游标分页列表，支持文本过滤
func (h *PostHandler) Feed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	searchQuery := c.Query("q")
	cursor := parseCursor(c)

	posts, nextCursor, err := h.postService.GetFeed(searchQuery, limit, cursor)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts":       posts,
		"next_cursor": nextCursor,
	}, "")
}

// Info 返回帖子详情
func (h *PostHandler) Info(c *gin.Context) {
	post, err := h.postService.GetPostInfo(c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"post": post}, "")
}

// Thread 返回帖子详情和按时间正序排列的回复
func (h *PostHandler) Thread(c *gin.Context) {
	post, replies, err := h.postService.GetThread(c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{
		"post":    post,
		"replies": replies,
	}, "")
}

// Quoted 返回被引用帖子的渲染投影
func (h *PostHandler) Quoted(c *gin.Context) {
	post, err := h.postService.GetQuotedPost(c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"post": post}, "")
}

// Delete 删除自己的帖子
func (h *PostHandler) Delete(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.postService.DeletePost(c.Param("id"), userID); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "帖子已删除")
}

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

package interaction

import (
	"threads-backend/internal/errors"
	"threads-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// InteractionHandler 处理点赞、转发、关注的切换请求
type InteractionHandler struct {
	interactionService *service.InteractionService
}

// NewInteractionHandler 创建一个新的 InteractionHandler 实例
func NewInteractionHandler(interactionService *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService}
}

// ToggleLike 切换当前用户对帖子的点赞状态
func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	userID := c.GetString("user_id")

	active, err := h.interactionService.ToggleLike(userID, c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"liked": active}, "")
}

// ToggleRepost 切换当前用户对帖子的转发状态
func (h *InteractionHandler) ToggleRepost(c *gin.Context) {
	userID := c.GetString("user_id")

	active, err := h.interactionService.ToggleRepost(userID, c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"reposted": active}, "")
}

// ToggleFollow 切换当前用户对目标用户的关注状态
func (h *InteractionHandler) ToggleFollow(c *gin.Context) {
	userID := c.GetString("user_id")

	active, err := h.interactionService.ToggleFollow(userID, c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"following": active}, "")
}

// IsFollowing 查询当前用户是否已关注目标用户，并附带目标的关注者人数
func (h *InteractionHandler) IsFollowing(c *gin.Context) {
	userID := c.GetString("user_id")

	following, followers, err := h.interactionService.FollowStatus(userID, c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"following": following, "followers": followers}, "")
}

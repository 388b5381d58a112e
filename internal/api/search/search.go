package search

import (
	"threads-backend/internal/errors"
	"threads-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler 处理用户搜索请求
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService}
}

// Search 按查询串匹配用户的全名、用户名或邮箱
func (h *SearchHandler) Search(c *gin.Context) {
	users, err := h.searchService.Search(c.Query("q"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"users": users}, "")
}

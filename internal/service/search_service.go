package service

import (
	"strings"

	"threads-backend/internal/errors"
	"threads-backend/internal/model"
	"threads-backend/internal/repository/interfaces"
)

// SearchService 对用户集合做线性的大小写不敏感子串匹配
// 数据集规模小，不建索引也不分页
type SearchService struct {
	userRepo interfaces.UserRepository
}

// NewSearchService 创建一个新的 SearchService 实例
func NewSearchService(userRepo interfaces.UserRepository) *SearchService {
	return &SearchService{userRepo: userRepo}
}

// Search 返回全名、用户名或邮箱包含查询串的用户
// 空查询返回全部用户
func (s *SearchService) Search(query string) ([]*model.User, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取用户列表失败", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return users, nil
	}

	matched := make([]*model.User, 0)
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Fullname), needle) ||
			strings.Contains(strings.ToLower(u.Username), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

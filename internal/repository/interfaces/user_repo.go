package interfaces

import "threads-backend/internal/model"

// UserRepository 定义了用户相关的数据库操作接口
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	Delete(id string) error
	Count() (int, error)
	// ListAll 返回全部用户，供搜索做线性扫描，只适用于小数据集
	ListAll() ([]*model.User, error)
	// ListPage 按 (created_at, id) 倒序做游标分页，返回 limit 条
	ListPage(limit int, cursor *model.FeedCursor) ([]*model.User, error)
	GetFollowers(userID string) ([]*model.User, error)
	GetFollowing(userID string) ([]*model.User, error)
}

package interfaces

import "threads-backend/internal/model"

// PostRepository 定义了帖子相关的数据库操作接口
// 列表类方法都会附带作者、图片与点赞/回复计数
type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id string) (*model.Post, error)
	// FindByIDAndAuthor 按作者过滤查找，归属不匹配与不存在同样返回 nil
	FindByIDAndAuthor(id, authorID string) (*model.Post, error)
	// FindDetail 返回帖子及其点赞、回复、转发和被引用/父帖链
	FindDetail(id string) (*model.Post, error)
	// ListFeed 返回顶层帖子（无父帖），可选文本过滤，
	// 按 createdAt 降序、id 降序，游标分页，返回 limit 条
	ListFeed(searchQuery string, limit int, cursor *model.FeedCursor) ([]*model.Post, error)
	// ListByParent 返回指定父帖下的直接回复，createdAt 降序、id 降序
	ListByParent(parentID string) ([]*model.Post, error)
	ListTopLevelByAuthor(username string) ([]*model.Post, error)
	ListRepliesByAuthor(username string) ([]*model.Post, error)
	ListRepostedByUser(username string) ([]*model.Post, error)
	// Delete 在单个事务内级联删除：引用此帖的 quote_id 置空，
	// 帖子本身、直接回复及相关点赞/转发/通知一并删除
	Delete(id string) error
	Count() (int, error)
}

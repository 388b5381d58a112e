package mysql

import (
	"database/sql"
	"log"

	"threads-backend/internal/model"
)

// adminRepository 实现了 AdminRepository 接口
type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository 创建一个新的 adminRepository 实例
func NewAdminRepository(db *sql.DB) *adminRepository {
	return &adminRepository{db: db}
}

// PurgeSeedData 清空非管理员用户及其产生的全部内容
// 按外键依赖顺序删除，整个过程在一个事务内完成
func (r *adminRepository) PurgeSeedData() error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM notifications WHERE sender_user_id IN (SELECT id FROM users WHERE is_admin = false)
            OR receiver_user_id IN (SELECT id FROM users WHERE is_admin = false)`,
		`DELETE FROM likes WHERE user_id IN (SELECT id FROM users WHERE is_admin = false)`,
		`DELETE FROM reposts WHERE user_id IN (SELECT id FROM users WHERE is_admin = false)`,
		`DELETE FROM follows WHERE follower_id IN (SELECT id FROM users WHERE is_admin = false)
            OR followed_id IN (SELECT id FROM users WHERE is_admin = false)`,
		`DELETE FROM post_images WHERE post_id IN (
            SELECT id FROM (SELECT p.id FROM posts p JOIN users u ON p.author_id = u.id WHERE u.is_admin = false) t)`,
		`UPDATE posts SET quote_id = NULL WHERE quote_id IN (
            SELECT id FROM (SELECT p.id FROM posts p JOIN users u ON p.author_id = u.id WHERE u.is_admin = false) t)`,
		`DELETE FROM posts WHERE author_id IN (SELECT id FROM users WHERE is_admin = false)`,
		`DELETE FROM users WHERE is_admin = false`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			log.Printf("清理测试数据失败: %v", err)
			return err
		}
	}
	return tx.Commit()
}

// GetSystemStats 统计用户、帖子和通知总量
// 用户是物理删除的，直接数全表；点赞和转发的计数走 InteractionRepository
func (r *adminRepository) GetSystemStats() (*model.SystemStats, error) {
	stats := &model.SystemStats{}
	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM users`, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM posts`, &stats.TotalPosts},
		{`SELECT COUNT(*) FROM notifications`, &stats.TotalNotifications},
	}
	for _, q := range queries {
		if err := r.db.QueryRow(q.query).Scan(q.dest); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

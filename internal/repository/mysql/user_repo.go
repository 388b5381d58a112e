package mysql

import (
	"database/sql"
	"log"
	"time"

	"threads-backend/internal/model"

	"github.com/google/uuid"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

const userColumns = `id, username, fullname, email, password_hash, image, bio, link, privacy, verified, is_admin, created_at, updated_at`

// nullableUsername 把未设置的用户名写成 NULL
// username 列有唯一索引，空字符串会让第二个未完成初始化的用户撞键
func nullableUsername(username string) sql.NullString {
	return sql.NullString{String: username, Valid: username != ""}
}

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	var user model.User
	var username sql.NullString
	err := row.Scan(
		&user.ID, &username, &user.Fullname, &user.Email, &user.PasswordHash,
		&user.Image, &user.Bio, &user.Link, &user.Privacy, &user.Verified,
		&user.IsAdmin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Username = username.String
	return &user, nil
}

// Create 创建一个新用户
func (r *userRepository) Create(user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Privacy == "" {
		user.Privacy = model.PrivacyPublic
	}
	log.Printf("尝试创建新用户：%s", user.Email)
	query := `INSERT INTO users (id, username, fullname, email, password_hash, image, bio, link, privacy, verified, is_admin, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	_, err := r.db.Exec(query, user.ID, nullableUsername(user.Username), user.Fullname, user.Email,
		user.PasswordHash, user.Image, user.Bio, user.Link, user.Privacy,
		user.Verified, user.IsAdmin)
	if err != nil {
		log.Printf("创建用户失败：%v", err)
		return err
	}
	log.Printf("用户创建成功：ID=%s", user.ID)
	return nil
}

// FindByID 通过ID查找用户，不存在时返回 nil
func (r *userRepository) FindByID(id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail 通过邮箱查找用户，不存在时返回 nil
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := scanUser(r.db.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindByUsername 通过用户名查找用户，不存在时返回 nil
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	user, err := scanUser(r.db.QueryRow(query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Update 更新用户信息
func (r *userRepository) Update(user *model.User) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET username = ?, fullname = ?, image = ?, bio = ?, link = ?, privacy = ?, verified = ?, is_admin = ?, updated_at = ?
		WHERE id = ?`,
		nullableUsername(user.Username), user.Fullname, user.Image, user.Bio, user.Link,
		user.Privacy, user.Verified, user.IsAdmin, time.Now(), user.ID)
	return err
}

// Delete 删除用户
func (r *userRepository) Delete(id string) error {
	log.Printf("尝试删除用户：ID=%s", id)
	query := `DELETE FROM users WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		log.Printf("删除用户失败：%v", err)
		return err
	}
	return nil
}

// Count 统计用户总数
func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// ListAll 返回全部用户，搜索的线性扫描用
func (r *userRepository) ListAll() ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ListPage 按 (created_at, id) 倒序做游标分页
func (r *userRepository) ListPage(limit int, cursor *model.FeedCursor) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if cursor != nil {
		// 游标是下一页的第一条，包含游标本身
		query += ` WHERE created_at < ? OR (created_at = ? AND id <= ?)`
		args = append(args, cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetFollowers 返回关注了该用户的用户列表
func (r *userRepository) GetFollowers(userID string) ([]*model.User, error) {
	query := `
        SELECT u.id, u.username, u.fullname, u.email, u.password_hash, u.image, u.bio, u.link, u.privacy, u.verified, u.is_admin, u.created_at, u.updated_at
        FROM users u
        JOIN follows f ON u.id = f.follower_id
        WHERE f.followed_id = ?
        ORDER BY f.created_at DESC`
	return r.queryUsers(query, userID)
}

// GetFollowing 返回该用户关注的用户列表
func (r *userRepository) GetFollowing(userID string) ([]*model.User, error) {
	query := `
        SELECT u.id, u.username, u.fullname, u.email, u.password_hash, u.image, u.bio, u.link, u.privacy, u.verified, u.is_admin, u.created_at, u.updated_at
        FROM users u
        JOIN follows f ON u.id = f.followed_id
        WHERE f.follower_id = ?
        ORDER BY f.created_at DESC`
	return r.queryUsers(query, userID)
}

func (r *userRepository) queryUsers(query string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

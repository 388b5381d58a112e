package mysql

import (
	"database/sql"

	"threads-backend/internal/model"
	"threads-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// postRepository 实现了 PostRepository 接口
type postRepository struct {
	db *sql.DB
}

// NewPostRepository 创建一个新的 postRepository 实例
func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db: db}
}

// Create 在单个事务内插入帖子及其有序图片
func (r *postRepository) Create(post *model.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.Privacy == "" {
		post.Privacy = model.PostPrivacyAnyone
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO posts (id, author_id, text, privacy, parent_post_id, quote_id, created_at)
              VALUES (?, ?, ?, ?, ?, ?, NOW())`
	_, err = tx.Exec(query, post.ID, post.AuthorID, post.Text, post.Privacy,
		post.ParentPostID, post.QuoteID)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}

	// 插入图片，position 保持传入顺序
	if len(post.Images) > 0 {
		query = `INSERT INTO post_images (post_id, image_url, position) VALUES (?, ?, ?)`
		for i, imageURL := range post.Images {
			if _, err = tx.Exec(query, post.ID, imageURL, i); err != nil {
				util.Logger.Error("插入帖子图片失败", zap.Error(err))
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	util.Logger.Info("帖子创建成功", zap.String("post_id", post.ID))
	return nil
}

const postSelect = `
        SELECT p.id, p.author_id, p.text, p.privacy, p.parent_post_id, p.quote_id, p.created_at,
               u.id, u.username, u.fullname, u.email, u.image, u.bio, u.link, u.privacy, u.verified, u.is_admin
        FROM posts p
        LEFT JOIN users u ON p.author_id = u.id`

func scanPost(row interface{ Scan(...interface{}) error }) (*model.Post, error) {
	var post model.Post
	var author model.User
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Text, &post.Privacy,
		&post.ParentPostID, &post.QuoteID, &post.CreatedAt,
		&author.ID, &author.Username, &author.Fullname, &author.Email,
		&author.Image, &author.Bio, &author.Link, &author.Privacy,
		&author.Verified, &author.IsAdmin,
	)
	if err != nil {
		return nil, err
	}
	post.Author = &author
	return &post, nil
}

// FindByID 返回帖子基本信息及作者和图片，不存在时返回 nil
func (r *postRepository) FindByID(id string) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRow(postSelect+` WHERE p.id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadImages(post); err != nil {
		return nil, err
	}
	return post, nil
}

// FindByIDAndAuthor 按作者过滤查找，归属不匹配与不存在同样返回 nil
func (r *postRepository) FindByIDAndAuthor(id, authorID string) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRow(postSelect+` WHERE p.id = ? AND p.author_id = ?`, id, authorID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

// FindDetail 返回帖子及其点赞、转发、回复和父帖
func (r *postRepository) FindDetail(id string) (*model.Post, error) {
	post, err := r.FindByID(id)
	if err != nil || post == nil {
		return post, err
	}

	if err := r.hydrate(post); err != nil {
		return nil, err
	}

	replies, err := r.ListByParent(post.ID)
	if err != nil {
		return nil, err
	}
	post.Replies = replies
	post.ReplyCount = len(replies)

	if post.ParentPostID != nil {
		parent, err := r.FindByID(*post.ParentPostID)
		if err != nil {
			return nil, err
		}
		post.ParentPost = parent
	}

	return post, nil
}

// ListFeed 返回顶层帖子，可选文本过滤，游标分页
func (r *postRepository) ListFeed(searchQuery string, limit int, cursor *model.FeedCursor) ([]*model.Post, error) {
	query := postSelect + ` WHERE p.parent_post_id IS NULL`
	args := []interface{}{}

	if searchQuery != "" {
		query += ` AND p.text LIKE ?`
		args = append(args, "%"+searchQuery+"%")
	}
	if cursor != nil {
		// 游标是下一页的第一条，包含游标本身
		query += ` AND (p.created_at < ? OR (p.created_at = ? AND p.id <= ?))`
		args = append(args, cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC LIMIT ?`
	args = append(args, limit)

	return r.queryPosts(query, args...)
}

// ListByParent 返回指定父帖下的直接回复
func (r *postRepository) ListByParent(parentID string) ([]*model.Post, error) {
	query := postSelect + ` WHERE p.parent_post_id = ? ORDER BY p.created_at DESC, p.id DESC`
	return r.queryPosts(query, parentID)
}

// ListTopLevelByAuthor 返回某用户发布的顶层帖子
func (r *postRepository) ListTopLevelByAuthor(username string) ([]*model.Post, error) {
	query := postSelect + ` WHERE u.username = ? AND p.parent_post_id IS NULL
        ORDER BY p.created_at DESC, p.id DESC`
	return r.queryPosts(query, username)
}

// ListRepliesByAuthor 返回某用户发布的回复
func (r *postRepository) ListRepliesByAuthor(username string) ([]*model.Post, error) {
	query := postSelect + ` WHERE u.username = ? AND p.parent_post_id IS NOT NULL
        ORDER BY p.created_at DESC, p.id DESC`
	return r.queryPosts(query, username)
}

// ListRepostedByUser 返回某用户转发过的帖子
func (r *postRepository) ListRepostedByUser(username string) ([]*model.Post, error) {
	query := `
        SELECT p.id, p.author_id, p.text, p.privacy, p.parent_post_id, p.quote_id, p.created_at,
               u.id, u.username, u.fullname, u.email, u.image, u.bio, u.link, u.privacy, u.verified, u.is_admin
        FROM reposts rp
        JOIN posts p ON rp.post_id = p.id
        JOIN users ru ON rp.user_id = ru.id
        LEFT JOIN users u ON p.author_id = u.id
        WHERE ru.username = ?
        ORDER BY rp.created_at DESC, p.id DESC`
	return r.queryPosts(query, username)
}

// Delete 在单个事务内级联删除帖子
// 引用此帖的 quote_id 置空；帖子本身、直接回复及关联的点赞/转发/通知一并删除
func (r *postRepository) Delete(id string) error {
	util.Logger.Info("开始删除帖子", zap.String("post_id", id))

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 先收集直接回复的ID
	rows, err := tx.Query(`SELECT id FROM posts WHERE parent_post_id = ?`, id)
	if err != nil {
		return err
	}
	ids := []interface{}{id}
	for rows.Next() {
		var replyID string
		if err := rows.Scan(&replyID); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, replyID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	placeholders := "?"
	for i := 1; i < len(ids); i++ {
		placeholders += ", ?"
	}

	// 引用被删帖子的引用关系置空
	if _, err := tx.Exec(`UPDATE posts SET quote_id = NULL WHERE quote_id = ?`, id); err != nil {
		util.Logger.Error("清除引用关系失败", zap.Error(err))
		return err
	}

	for _, stmt := range []string{
		`DELETE FROM likes WHERE post_id IN (` + placeholders + `)`,
		`DELETE FROM reposts WHERE post_id IN (` + placeholders + `)`,
		`DELETE FROM notifications WHERE post_id IN (` + placeholders + `)`,
		`DELETE FROM post_images WHERE post_id IN (` + placeholders + `)`,
		`DELETE FROM posts WHERE id IN (` + placeholders + `)`,
	} {
		if _, err := tx.Exec(stmt, ids...); err != nil {
			util.Logger.Error("级联删除失败", zap.Error(err), zap.String("post_id", id))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("帖子删除成功", zap.String("post_id", id))
	return nil
}

// Count 统计帖子总数
func (r *postRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}

func (r *postRepository) queryPosts(query string, args ...interface{}) ([]*model.Post, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, post := range posts {
		if err := r.hydrate(post); err != nil {
			return nil, err
		}
		var replyCount int
		if err := r.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE parent_post_id = ?`, post.ID).Scan(&replyCount); err != nil {
			return nil, err
		}
		post.ReplyCount = replyCount
	}
	return posts, nil
}

// hydrate 加载图片、点赞和转发
func (r *postRepository) hydrate(post *model.Post) error {
	if err := r.loadImages(post); err != nil {
		return err
	}

	likeRows, err := r.db.Query(`SELECT id, post_id, user_id, created_at FROM likes WHERE post_id = ?`, post.ID)
	if err != nil {
		return err
	}
	defer likeRows.Close()
	for likeRows.Next() {
		var like model.Like
		if err := likeRows.Scan(&like.ID, &like.PostID, &like.UserID, &like.CreatedAt); err != nil {
			return err
		}
		post.Likes = append(post.Likes, &like)
	}
	if err := likeRows.Err(); err != nil {
		return err
	}
	post.LikeCount = len(post.Likes)

	repostRows, err := r.db.Query(`SELECT id, post_id, user_id, created_at FROM reposts WHERE post_id = ?`, post.ID)
	if err != nil {
		return err
	}
	defer repostRows.Close()
	for repostRows.Next() {
		var repost model.Repost
		if err := repostRows.Scan(&repost.ID, &repost.PostID, &repost.UserID, &repost.CreatedAt); err != nil {
			return err
		}
		post.Reposts = append(post.Reposts, &repost)
	}
	return repostRows.Err()
}

func (r *postRepository) loadImages(post *model.Post) error {
	rows, err := r.db.Query(`SELECT image_url FROM post_images WHERE post_id = ? ORDER BY position ASC`, post.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var imageURL string
		if err := rows.Scan(&imageURL); err != nil {
			return err
		}
		images = append(images, imageURL)
	}
	post.Images = images
	return rows.Err()
}

package service

import (
	"strings"

	"threads-backend/internal/errors"
	"threads-backend/internal/model"
	"threads-backend/internal/repository/interfaces"
	"threads-backend/internal/util"

	goaway "github.com/TwiN/go-away"
	"go.uber.org/zap"
)

// 帖子正文的最小长度
const minPostTextLength = 3

// PostService 处理与帖子相关的业务逻辑
type PostService struct {
	postRepo         interfaces.PostRepository
	notificationRepo interfaces.NotificationRepository
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(postRepo interfaces.PostRepository, notificationRepo interfaces.NotificationRepository) *PostService {
	return &PostService{
		postRepo:         postRepo,
		notificationRepo: notificationRepo,
	}
}

// sanitizeText 校验并清洗帖子正文，脏话替换为星号
func sanitizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minPostTextLength {
		return "", errors.New(errors.ErrValidation, "text must be at least 3 characters")
	}
	return goaway.Censor(trimmed), nil
}

// CreatePost 创建一条顶层帖子，可附带对另一条帖子的引用
// 引用他人帖子时向被引用作者发送 QUOTE 通知，引用自己的帖子不通知
func (s *PostService) CreatePost(authorID, text string, images []string, privacy model.PostPrivacy, quoteID *string) (*model.Post, error) {
	cleaned, err := sanitizeText(text)
	if err != nil {
		return nil, err
	}
	if privacy == "" {
		privacy = model.PostPrivacyAnyone
	}

	var quoted *model.Post
	if quoteID != nil {
		quoted, err = s.postRepo.FindByID(*quoteID)
		if err != nil {
			return nil, err
		}
		if quoted == nil {
			return nil, errors.New(errors.ErrPostNotFound, "quoted post not found")
		}
	}

	post := &model.Post{
		AuthorID: authorID,
		Text:     cleaned,
		Images:   images,
		Privacy:  privacy,
		QuoteID:  quoteID,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建帖子失败", err)
	}

	if quoted != nil && quoted.AuthorID != authorID {
		notification := &model.Notification{
			Type:           model.NotificationQuote,
			SenderUserID:   authorID,
			ReceiverUserID: quoted.AuthorID,
			PostID:         &post.ID,
			Message:        cleaned,
		}
		if err := s.notificationRepo.Create(notification); err != nil {
			util.Logger.Error("发送引用通知失败", zap.Error(err), zap.String("post_id", post.ID))
		}
	}

	util.Logger.Info("帖子创建成功", zap.String("post_id", post.ID), zap.String("author_id", authorID))
	return post, nil
}

// ReplyToPost 回复一条帖子
// 回复他人帖子时向父帖作者发送 REPLY 通知，回复自己的帖子不通知
func (s *PostService) ReplyToPost(authorID, parentPostID, text string, images []string, privacy model.PostPrivacy) (*model.Post, error) {
	cleaned, err := sanitizeText(text)
	if err != nil {
		return nil, err
	}
	if privacy == "" {
		privacy = model.PostPrivacyAnyone
	}

	parent, err := s.postRepo.FindByID(parentPostID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, errors.New(errors.ErrPostNotFound, "parent post not found")
	}

	post := &model.Post{
		AuthorID:     authorID,
		Text:         cleaned,
		Images:       images,
		Privacy:      privacy,
		ParentPostID: &parentPostID,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建回复失败", err)
	}

	if parent.AuthorID != authorID {
		notification := &model.Notification{
			Type:           model.NotificationReply,
			SenderUserID:   authorID,
			ReceiverUserID: parent.AuthorID,
			PostID:         &parentPostID,
			Message:        cleaned,
		}
		if err := s.notificationRepo.Create(notification); err != nil {
			util.Logger.Error("发送回复通知失败", zap.Error(err), zap.String("post_id", parentPostID))
		}
	}

	return post, nil
}

// GetFeed 返回顶层帖子的游标分页列表和下一页游标
func (s *PostService) GetFeed(searchQuery string, limit int, cursor *model.FeedCursor) ([]*model.Post, *model.FeedCursor, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	posts, err := s.postRepo.ListFeed(searchQuery, limit+1, cursor)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "获取帖子列表失败", err)
	}

	var nextCursor *model.FeedCursor
	if len(posts) > limit {
		// 多取的一条只用来生成下一页游标
		next := posts[limit]
		posts = posts[:limit]
		nextCursor = &model.FeedCursor{ID: next.ID, CreatedAt: next.CreatedAt}
	}
	return posts, nextCursor, nil
}

// GetPostInfo 返回帖子详情，附带作者、点赞、回复和父帖/被引用帖
func (s *PostService) GetPostInfo(id string) (*model.Post, error) {
	post, err := s.postRepo.FindDetail(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	return post, nil
}

// GetThread 返回帖子详情和它的直接回复，回复按时间正序排列
func (s *PostService) GetThread(id string) (*model.Post, []*model.Post, error) {
	post, err := s.postRepo.FindDetail(id)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "获取帖子失败", err)
	}
	if post == nil {
		return nil, nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	replies, err := s.postRepo.ListByParent(id)
	if err != nil {
		return nil, nil, err
	}

	// 列表按倒序取出，展示时反转为时间正序
	ordered := make([]*model.Post, 0, len(replies))
	for i := len(replies) - 1; i >= 0; i-- {
		if replies[i].ID == id {
			continue
		}
		ordered = append(ordered, replies[i])
	}
	return post, ordered, nil
}

// GetQuotedPost 返回被引用帖子的渲染投影
func (s *PostService) GetQuotedPost(id string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	return post, nil
}

// DeletePost 删除帖子及其关联数据
// 归属校验合并进查找：不是作者的帖子表现为不存在
func (s *PostService) DeletePost(id, actorID string) error {
	post, err := s.postRepo.FindByIDAndAuthor(id, actorID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	if err := s.postRepo.Delete(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除帖子失败", err)
	}
	util.Logger.Info("帖子已删除", zap.String("post_id", id), zap.String("author_id", actorID))
	return nil
}

// GetUserPosts 返回用户发布的顶层帖子
func (s *PostService) GetUserPosts(username string) ([]*model.Post, error) {
	return s.postRepo.ListTopLevelByAuthor(username)
}

// GetUserReplies 返回用户发布的回复
func (s *PostService) GetUserReplies(username string) ([]*model.Post, error) {
	return s.postRepo.ListRepliesByAuthor(username)
}

// GetUserReposts 返回用户转发过的帖子
func (s *PostService) GetUserReposts(username string) ([]*model.Post, error) {
	return s.postRepo.ListRepostedByUser(username)
}

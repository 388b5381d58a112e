package service

import (
	"fmt"
	"testing"
	"time"

	"threads-backend/internal/errors"
	"threads-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func newPostFixture(t *testing.T) (*PostService, *fakePostRepo, *fakeNotificationRepo) {
	t.Helper()
	postRepo := newFakePostRepo()
	notificationRepo := newFakeNotificationRepo()
	return NewPostService(postRepo, notificationRepo), postRepo, notificationRepo
}

func TestCreatePostValidation(t *testing.T) {
	svc, _, _ := newPostFixture(t)

	_, err := svc.CreatePost("author", "ab", nil, model.PostPrivacyAnyone, nil)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = svc.CreatePost("author", "  a  ", nil, model.PostPrivacyAnyone, nil)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestCreatePostCensorsProfanity(t *testing.T) {
	svc, _, _ := newPostFixture(t)

	post, err := svc.CreatePost("author", "this is shit", nil, model.PostPrivacyAnyone, nil)
	assert.NoError(t, err)
	assert.NotContains(t, post.Text, "shit")
	assert.Contains(t, post.Text, "this is")
}

func TestCreatePostQuoteNotification(t *testing.T) {
	svc, postRepo, notificationRepo := newPostFixture(t)

	quoted := &model.Post{AuthorID: "original-author", Text: "original"}
	assert.NoError(t, postRepo.Create(quoted))

	post, err := svc.CreatePost("quoter", "interesting take", nil, model.PostPrivacyAnyone, &quoted.ID)
	assert.NoError(t, err)
	assert.Equal(t, &quoted.ID, post.QuoteID)

	notifications, _ := notificationRepo.ListAll()
	assert.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationQuote, notifications[0].Type)
	assert.Equal(t, "original-author", notifications[0].ReceiverUserID)
	// 引用通知指向新创建的帖子
	assert.Equal(t, post.ID, *notifications[0].PostID)
}

func TestCreatePostSelfQuoteNoNotification(t *testing.T) {
	svc, postRepo, notificationRepo := newPostFixture(t)

	quoted := &model.Post{AuthorID: "author", Text: "my post"}
	assert.NoError(t, postRepo.Create(quoted))

	_, err := svc.CreatePost("author", "quoting myself", nil, model.PostPrivacyAnyone, &quoted.ID)
	assert.NoError(t, err)

	notifications, _ := notificationRepo.ListAll()
	assert.Empty(t, notifications)
}

func TestCreatePostQuoteMissing(t *testing.T) {
	svc, _, _ := newPostFixture(t)

	missing := "missing"
	_, err := svc.CreatePost("author", "quoting nothing", nil, model.PostPrivacyAnyone, &missing)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

func TestReplyNotification(t *testing.T) {
	svc, postRepo, notificationRepo := newPostFixture(t)

	parent := &model.Post{AuthorID: "parent-author", Text: "parent"}
	assert.NoError(t, postRepo.Create(parent))

	reply, err := svc.ReplyToPost("replier", parent.ID, "nice post", nil, model.PostPrivacyAnyone)
	assert.NoError(t, err)
	assert.Equal(t, parent.ID, *reply.ParentPostID)

	notifications, _ := notificationRepo.ListAll()
	assert.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationReply, notifications[0].Type)
	// 回复通知指向父帖
	assert.Equal(t, parent.ID, *notifications[0].PostID)

	// 回复自己的帖子不通知
	_, err = svc.ReplyToPost("parent-author", parent.ID, "replying to myself", nil, model.PostPrivacyAnyone)
	assert.NoError(t, err)
	notifications, _ = notificationRepo.ListAll()
	assert.Len(t, notifications, 1)
}

func TestGetFeedPagination(t *testing.T) {
	svc, postRepo, _ := newPostFixture(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		assert.NoError(t, postRepo.Create(&model.Post{
			AuthorID:  "author",
			Text:      fmt.Sprintf("post %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	// 第一页：两条，最新在前，并返回下一页游标
	posts, cursor, err := svc.GetFeed("", 2, nil)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "post 4", posts[0].Text)
	assert.Equal(t, "post 3", posts[1].Text)
	assert.NotNil(t, cursor)

	// 第二页从游标继续，不重复不遗漏
	posts, cursor, err = svc.GetFeed("", 2, cursor)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "post 2", posts[0].Text)
	assert.Equal(t, "post 1", posts[1].Text)
	assert.NotNil(t, cursor)

	// 最后一页不足 limit 条，游标为空
	posts, cursor, err = svc.GetFeed("", 2, cursor)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, "post 0", posts[0].Text)
	assert.Nil(t, cursor)
}

func TestGetFeedExcludesReplies(t *testing.T) {
	svc, postRepo, _ := newPostFixture(t)

	top := &model.Post{AuthorID: "author", Text: "top level"}
	assert.NoError(t, postRepo.Create(top))
	assert.NoError(t, postRepo.Create(&model.Post{
		AuthorID: "author", Text: "a reply", ParentPostID: &top.ID,
	}))

	posts, _, err := svc.GetFeed("", 10, nil)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, "top level", posts[0].Text)
}

func TestGetThreadOrdersRepliesChronologically(t *testing.T) {
	svc, postRepo, _ := newPostFixture(t)

	parent := &model.Post{AuthorID: "author", Text: "parent"}
	assert.NoError(t, postRepo.Create(parent))

	base := time.Now()
	for i := 0; i < 3; i++ {
		assert.NoError(t, postRepo.Create(&model.Post{
			AuthorID:     "replier",
			Text:         fmt.Sprintf("reply %d", i),
			ParentPostID: &parent.ID,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	post, replies, err := svc.GetThread(parent.ID)
	assert.NoError(t, err)
	assert.Equal(t, parent.ID, post.ID)
	assert.Len(t, replies, 3)
	assert.Equal(t, "reply 0", replies[0].Text)
	assert.Equal(t, "reply 2", replies[2].Text)
}

func TestDeletePostOwnership(t *testing.T) {
	svc, postRepo, _ := newPostFixture(t)

	post := &model.Post{AuthorID: "owner", Text: "to delete"}
	assert.NoError(t, postRepo.Create(post))

	// 非作者删除表现为不存在而不是禁止
	err := svc.DeletePost(post.ID, "stranger")
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))

	assert.NoError(t, svc.DeletePost(post.ID, "owner"))

	_, err = svc.GetPostInfo(post.ID)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

func TestDeletePostUnlinksQuotes(t *testing.T) {
	svc, postRepo, _ := newPostFixture(t)

	quoted := &model.Post{AuthorID: "owner", Text: "quoted"}
	assert.NoError(t, postRepo.Create(quoted))
	quoting := &model.Post{AuthorID: "other", Text: "quoting", QuoteID: &quoted.ID}
	assert.NoError(t, postRepo.Create(quoting))

	assert.NoError(t, svc.DeletePost(quoted.ID, "owner"))

	remaining, err := svc.GetPostInfo(quoting.ID)
	assert.NoError(t, err)
	assert.Nil(t, remaining.QuoteID)
}

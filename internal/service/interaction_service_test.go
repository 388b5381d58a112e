package service

import (
	"testing"

	"threads-backend/internal/errors"
	"threads-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func newInteractionFixture(t *testing.T) (*InteractionService, *fakePostRepo, *fakeUserRepo, *fakeNotificationRepo) {
	t.Helper()
	notificationRepo := newFakeNotificationRepo()
	postRepo := newFakePostRepo()
	userRepo := newFakeUserRepo()
	interactionRepo := newFakeInteractionRepo(notificationRepo)
	svc := NewInteractionService(interactionRepo, postRepo, userRepo)
	return svc, postRepo, userRepo, notificationRepo
}

func TestToggleLikePairsNotification(t *testing.T) {
	svc, postRepo, _, notificationRepo := newInteractionFixture(t)

	post := &model.Post{AuthorID: "author", Text: "hello world"}
	assert.NoError(t, postRepo.Create(post))

	// 第一次切换：点赞并产生通知
	active, err := svc.ToggleLike("actor", post.ID)
	assert.NoError(t, err)
	assert.True(t, active)

	notifications, _ := notificationRepo.ListAll()
	assert.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationLike, notifications[0].Type)
	assert.Equal(t, "actor", notifications[0].SenderUserID)
	assert.Equal(t, "author", notifications[0].ReceiverUserID)
	assert.Equal(t, "hello world", notifications[0].Message)

	// 第二次切换：取消点赞且配对通知被删除
	active, err = svc.ToggleLike("actor", post.ID)
	assert.NoError(t, err)
	assert.False(t, active)

	notifications, _ = notificationRepo.ListAll()
	assert.Empty(t, notifications)
}

func TestToggleLikeOwnPostNoNotification(t *testing.T) {
	svc, postRepo, _, notificationRepo := newInteractionFixture(t)

	post := &model.Post{AuthorID: "author", Text: "my own post"}
	assert.NoError(t, postRepo.Create(post))

	active, err := svc.ToggleLike("author", post.ID)
	assert.NoError(t, err)
	assert.True(t, active)

	notifications, _ := notificationRepo.ListAll()
	assert.Empty(t, notifications)
}

func TestToggleLikePostNotFound(t *testing.T) {
	svc, _, _, _ := newInteractionFixture(t)

	_, err := svc.ToggleLike("actor", "missing")
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

func TestToggleRepostPairsNotification(t *testing.T) {
	svc, postRepo, _, notificationRepo := newInteractionFixture(t)

	post := &model.Post{AuthorID: "author", Text: "repost me"}
	assert.NoError(t, postRepo.Create(post))

	active, err := svc.ToggleRepost("actor", post.ID)
	assert.NoError(t, err)
	assert.True(t, active)

	notifications, _ := notificationRepo.ListAll()
	assert.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationRepost, notifications[0].Type)

	active, err = svc.ToggleRepost("actor", post.ID)
	assert.NoError(t, err)
	assert.False(t, active)

	notifications, _ = notificationRepo.ListAll()
	assert.Empty(t, notifications)
}

func TestToggleFollow(t *testing.T) {
	svc, _, userRepo, notificationRepo := newInteractionFixture(t)

	target := &model.User{Fullname: "Target", Email: "target@example.com"}
	assert.NoError(t, userRepo.Create(target))

	active, err := svc.ToggleFollow("actor", target.ID)
	assert.NoError(t, err)
	assert.True(t, active)

	following, err := svc.IsFollowing("actor", target.ID)
	assert.NoError(t, err)
	assert.True(t, following)

	notifications, _ := notificationRepo.ListAll()
	assert.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationFollow, notifications[0].Type)
	assert.Equal(t, "Followed you", notifications[0].Message)

	// 取消关注：关系和通知一并消失
	active, err = svc.ToggleFollow("actor", target.ID)
	assert.NoError(t, err)
	assert.False(t, active)

	following, _ = svc.IsFollowing("actor", target.ID)
	assert.False(t, following)

	notifications, _ = notificationRepo.ListAll()
	assert.Empty(t, notifications)
}

func TestFollowStatusCountsFollowers(t *testing.T) {
	svc, _, userRepo, _ := newInteractionFixture(t)

	target := &model.User{Fullname: "Target", Email: "target@example.com"}
	assert.NoError(t, userRepo.Create(target))

	_, err := svc.ToggleFollow("actor", target.ID)
	assert.NoError(t, err)
	_, err = svc.ToggleFollow("other", target.ID)
	assert.NoError(t, err)

	following, followers, err := svc.FollowStatus("actor", target.ID)
	assert.NoError(t, err)
	assert.True(t, following)
	assert.Equal(t, 2, followers)

	following, followers, err = svc.FollowStatus("stranger", target.ID)
	assert.NoError(t, err)
	assert.False(t, following)
	assert.Equal(t, 2, followers)
}

func TestToggleFollowSelfNoNotification(t *testing.T) {
	svc, _, userRepo, notificationRepo := newInteractionFixture(t)

	self := &model.User{Fullname: "Self", Email: "self@example.com"}
	assert.NoError(t, userRepo.Create(self))

	// 关注自己仍然切换关系，但不产生通知
	active, err := svc.ToggleFollow(self.ID, self.ID)
	assert.NoError(t, err)
	assert.True(t, active)

	notifications, _ := notificationRepo.ListAll()
	assert.Empty(t, notifications)
}

func TestToggleFollowUserNotFound(t *testing.T) {
	svc, _, _, _ := newInteractionFixture(t)

	_, err := svc.ToggleFollow("actor", "missing")
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

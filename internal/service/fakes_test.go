package service

import (
	"database/sql"
	"sort"
	"strconv"
	"strings"
	"time"

	"threads-backend/internal/model"
)

// 内存版存储库实现，供服务层测试使用

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	if user.ID == "" {
		r.nextID++
		user.ID = "user-" + strconv.Itoa(r.nextID)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count() (int, error) {
	return len(r.users), nil
}

func (r *fakeUserRepo) ListAll() ([]*model.User, error) {
	users := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) ListPage(limit int, cursor *model.FeedCursor) ([]*model.User, error) {
	users, _ := r.ListAll()
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID > users[j].ID
	})
	page := make([]*model.User, 0, limit)
	for _, u := range users {
		if cursor != nil {
			if u.CreatedAt.After(cursor.CreatedAt) {
				continue
			}
			if u.CreatedAt.Equal(cursor.CreatedAt) && u.ID > cursor.ID {
				continue
			}
		}
		page = append(page, u)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func (r *fakeUserRepo) GetFollowers(userID string) ([]*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) GetFollowing(userID string) ([]*model.User, error) {
	return nil, nil
}

type fakePostRepo struct {
	posts  map[string]*model.Post
	nextID int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*model.Post)}
}

func (r *fakePostRepo) Create(post *model.Post) error {
	if post.ID == "" {
		r.nextID++
		post.ID = "post-" + strconv.Itoa(r.nextID)
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) FindByID(id string) (*model.Post, error) {
	if p, ok := r.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *fakePostRepo) FindByIDAndAuthor(id, authorID string) (*model.Post, error) {
	p, ok := r.posts[id]
	if !ok || p.AuthorID != authorID {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePostRepo) FindDetail(id string) (*model.Post, error) {
	return r.FindByID(id)
}

func (r *fakePostRepo) sorted() []*model.Post {
	posts := make([]*model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		copied := *p
		posts = append(posts, &copied)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts
}

func (r *fakePostRepo) ListFeed(searchQuery string, limit int, cursor *model.FeedCursor) ([]*model.Post, error) {
	feed := make([]*model.Post, 0, limit)
	for _, p := range r.sorted() {
		if p.ParentPostID != nil {
			continue
		}
		if searchQuery != "" && !strings.Contains(p.Text, searchQuery) {
			continue
		}
		if cursor != nil {
			if p.CreatedAt.After(cursor.CreatedAt) {
				continue
			}
			if p.CreatedAt.Equal(cursor.CreatedAt) && p.ID > cursor.ID {
				continue
			}
		}
		feed = append(feed, p)
		if len(feed) == limit {
			break
		}
	}
	return feed, nil
}

func (r *fakePostRepo) ListByParent(parentID string) ([]*model.Post, error) {
	var replies []*model.Post
	for _, p := range r.sorted() {
		if p.ParentPostID != nil && *p.ParentPostID == parentID {
			replies = append(replies, p)
		}
	}
	return replies, nil
}

func (r *fakePostRepo) ListTopLevelByAuthor(username string) ([]*model.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) ListRepliesByAuthor(username string) ([]*model.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) ListRepostedByUser(username string) ([]*model.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) Delete(id string) error {
	delete(r.posts, id)
	for _, p := range r.posts {
		if p.QuoteID != nil && *p.QuoteID == id {
			p.QuoteID = nil
		}
	}
	return nil
}

func (r *fakePostRepo) Count() (int, error) {
	return len(r.posts), nil
}

type fakeNotificationRepo struct {
	notifications []*model.Notification
	nextID        int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(n *model.Notification) error {
	if n.ID == "" {
		r.nextID++
		n.ID = "notification-" + strconv.Itoa(r.nextID)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	copied := *n
	r.notifications = append(r.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepo) ListAll() ([]*model.Notification, error) {
	list := make([]*model.Notification, 0, len(r.notifications))
	for _, n := range r.notifications {
		copied := *n
		list = append(list, &copied)
	}
	return list, nil
}

func (r *fakeNotificationRepo) MarkRead(id, receiverUserID string) error {
	for _, n := range r.notifications {
		if n.ID == id && n.ReceiverUserID == receiverUserID {
			n.Read = true
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *fakeNotificationRepo) Count() (int, error) {
	return len(r.notifications), nil
}

// fakeInteractionRepo 模拟切换操作的事务语义：
// 激活时写入配对通知，取消时删除匹配的一条
type fakeInteractionRepo struct {
	likes         map[string]bool // postID+"/"+userID
	reposts       map[string]bool
	follows       map[string]bool // followerID+"/"+followedID
	notifications *fakeNotificationRepo
}

func newFakeInteractionRepo(notifications *fakeNotificationRepo) *fakeInteractionRepo {
	return &fakeInteractionRepo{
		likes:         make(map[string]bool),
		reposts:       make(map[string]bool),
		follows:       make(map[string]bool),
		notifications: notifications,
	}
}

func (r *fakeInteractionRepo) toggle(set map[string]bool, key string, t model.NotificationType, senderID string, postID *string, receiverID string, notification *model.Notification) (bool, error) {
	if set[key] {
		delete(set, key)
		r.removeNotification(t, senderID, postID, receiverID)
		return false, nil
	}
	set[key] = true
	if notification != nil {
		if err := r.notifications.Create(notification); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *fakeInteractionRepo) removeNotification(t model.NotificationType, senderID string, postID *string, receiverID string) {
	for i, n := range r.notifications.notifications {
		if n.Type != t || n.SenderUserID != senderID {
			continue
		}
		if postID != nil {
			if n.PostID == nil || *n.PostID != *postID {
				continue
			}
		} else if n.ReceiverUserID != receiverID {
			continue
		}
		r.notifications.notifications = append(
			r.notifications.notifications[:i], r.notifications.notifications[i+1:]...)
		return
	}
}

func (r *fakeInteractionRepo) ToggleLike(like *model.Like, notification *model.Notification) (bool, error) {
	return r.toggle(r.likes, like.PostID+"/"+like.UserID, model.NotificationLike,
		like.UserID, &like.PostID, "", notification)
}

func (r *fakeInteractionRepo) ToggleRepost(repost *model.Repost, notification *model.Notification) (bool, error) {
	return r.toggle(r.reposts, repost.PostID+"/"+repost.UserID, model.NotificationRepost,
		repost.UserID, &repost.PostID, "", notification)
}

func (r *fakeInteractionRepo) ToggleFollow(follow *model.Follow, notification *model.Notification) (bool, error) {
	return r.toggle(r.follows, follow.FollowerID+"/"+follow.FollowedID, model.NotificationFollow,
		follow.FollowerID, nil, follow.FollowedID, notification)
}

func (r *fakeInteractionRepo) IsFollowing(followerID, followedID string) (bool, error) {
	return r.follows[followerID+"/"+followedID], nil
}

func (r *fakeInteractionRepo) CountFollowers(userID string) (int, error) {
	count := 0
	for key := range r.follows {
		if strings.HasSuffix(key, "/"+userID) {
			count++
		}
	}
	return count, nil
}

func (r *fakeInteractionRepo) CountLikes() (int, error) {
	return len(r.likes), nil
}

func (r *fakeInteractionRepo) CountReposts() (int, error) {
	return len(r.reposts), nil
}

package service

import (
	"strings"
	"testing"

	"threads-backend/internal/errors"
	"threads-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo, *fakeNotificationRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	notificationRepo := newFakeNotificationRepo()
	return NewUserService(userRepo, notificationRepo, adminID), userRepo, notificationRepo
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)

	user := &model.User{
		Fullname:     "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: "Sup3rSecret!",
	}
	assert.NoError(t, svc.Register(user))

	stored, _ := userRepo.FindByEmail("jane@example.com")
	assert.NotNil(t, stored)
	assert.NotEqual(t, "Sup3rSecret!", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Sup3rSecret!")))

	// 相同邮箱重复注册被拒绝
	err := svc.Register(&model.User{Email: "jane@example.com", PasswordHash: "Another1!"})
	assert.True(t, errors.Is(err, errors.ErrUserExists))
}

func TestLogin(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	user := &model.User{Email: "jane@example.com", PasswordHash: "Sup3rSecret!"}
	assert.NoError(t, svc.Register(user))

	logged, err := svc.Login("jane@example.com", "Sup3rSecret!")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = svc.Login("jane@example.com", "wrong")
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))

	_, err = svc.Login("nobody@example.com", "whatever")
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestTokenBlacklist(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	assert.False(t, svc.IsTokenBlacklisted("some-token"))
	assert.NoError(t, svc.Logout("some-token"))
	assert.True(t, svc.IsTokenBlacklisted("some-token"))
}

func TestAccountSetup(t *testing.T) {
	svc, userRepo, notificationRepo := newUserFixture(t)

	user := &model.User{Fullname: "Jane Doe", Email: "jane@example.com", PasswordHash: "Sup3rSecret!"}
	assert.NoError(t, svc.Register(user))

	result, err := svc.AccountSetup(user.ID, "hello there", "https://jane.dev", model.PrivacyPrivate)
	assert.NoError(t, err)
	assert.Equal(t, "jane_doe", result.Username)
	assert.Equal(t, "hello there", result.Bio)
	assert.Equal(t, model.PrivacyPrivate, result.Privacy)
	assert.True(t, result.Verified)

	// 欢迎通知由管理员账号发出
	notifications, _ := notificationRepo.ListAll()
	assert.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationAdmin, notifications[0].Type)
	assert.Equal(t, adminID, notifications[0].SenderUserID)
	assert.Equal(t, user.ID, notifications[0].ReceiverUserID)
	assert.Contains(t, notifications[0].Message, "Jane Doe")

	// 幂等：重复设置不改资料也不再发通知
	again, err := svc.AccountSetup(user.ID, "different bio", "", model.PrivacyPublic)
	assert.NoError(t, err)
	assert.Equal(t, "hello there", again.Bio)
	notifications, _ = notificationRepo.ListAll()
	assert.Len(t, notifications, 1)

	stored, _ := userRepo.FindByID(user.ID)
	assert.Equal(t, "jane_doe", stored.Username)
}

func TestAccountSetupValidation(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	user := &model.User{Fullname: "Jane", Email: "jane@example.com", PasswordHash: "Sup3rSecret!"}
	assert.NoError(t, svc.Register(user))

	_, err := svc.AccountSetup(user.ID, strings.Repeat("x", 101), "", model.PrivacyPublic)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = svc.AccountSetup(user.ID, "ok", "http://insecure.example.com", model.PrivacyPublic)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = svc.AccountSetup("missing", "ok", "", model.PrivacyPublic)
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

func TestAccountSetupUsernameCollision(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	first := &model.User{Fullname: "Jane Doe", Email: "jane1@example.com", PasswordHash: "Sup3rSecret!"}
	assert.NoError(t, svc.Register(first))
	second := &model.User{Fullname: "Jane Doe", Email: "jane2@example.com", PasswordHash: "Sup3rSecret!"}
	assert.NoError(t, svc.Register(second))

	r1, err := svc.AccountSetup(first.ID, "", "", model.PrivacyPublic)
	assert.NoError(t, err)
	r2, err := svc.AccountSetup(second.ID, "", "", model.PrivacyPublic)
	assert.NoError(t, err)

	assert.Equal(t, "jane_doe", r1.Username)
	assert.Equal(t, "jane_doe1", r2.Username)
}

func TestAccountSetupUsernameFromEmail(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	user := &model.User{Email: "Some.User+tag@Example.com", PasswordHash: "Sup3rSecret!"}
	assert.NoError(t, svc.Register(user))

	result, err := svc.AccountSetup(user.ID, "", "", model.PrivacyPublic)
	assert.NoError(t, err)
	assert.Equal(t, "some.usertag", result.Username)
}

func TestUpdateProfileValidation(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	user := &model.User{Fullname: "Jane", Email: "jane@example.com", PasswordHash: "Sup3rSecret!"}
	assert.NoError(t, svc.Register(user))

	err := svc.UpdateProfile(&model.User{ID: user.ID, Link: "ftp://nope"})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	assert.NoError(t, svc.UpdateProfile(&model.User{
		ID:       user.ID,
		Fullname: "Jane D.",
		Bio:      "updated",
		Link:     "https://jane.dev",
	}))

	stored, _ := svc.GetUserByID(user.ID)
	assert.Equal(t, "Jane D.", stored.Fullname)
	assert.Equal(t, "updated", stored.Bio)
}

func TestAllUsersPagination(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		assert.NoError(t, svc.Register(&model.User{Email: email, PasswordHash: "Sup3rSecret!"}))
	}

	page1, cursor, err := svc.AllUsers(2, nil)
	assert.NoError(t, err)
	assert.Len(t, page1, 2)
	assert.NotNil(t, cursor)

	page2, cursor, err := svc.AllUsers(2, cursor)
	assert.NoError(t, err)
	assert.Len(t, page2, 1)
	assert.Nil(t, cursor)

	seen := make(map[string]bool)
	for _, u := range append(page1, page2...) {
		assert.False(t, seen[u.ID])
		seen[u.ID] = true
	}
}

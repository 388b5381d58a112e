package service

import (
	"testing"

	"threads-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewSearchService(userRepo)

	seed := []*model.User{
		{Username: "jdoe", Fullname: "Jane Doe", Email: "jane@example.com"},
		{Username: "bob", Fullname: "Bob Smith", Email: "bob@test.org"},
		{Username: "doequeen", Fullname: "Alice", Email: "alice@example.com"},
	}
	for _, u := range seed {
		assert.NoError(t, userRepo.Create(u))
	}

	// 大小写不敏感，匹配全名
	users, err := svc.Search("JANE")
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "jdoe", users[0].Username)

	// 匹配用户名子串
	users, err = svc.Search("doe")
	assert.NoError(t, err)
	assert.Len(t, users, 2)

	// 匹配邮箱子串
	users, err = svc.Search("test.org")
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	// 空查询返回全部
	users, err = svc.Search("  ")
	assert.NoError(t, err)
	assert.Len(t, users, 3)

	// 无匹配返回空列表
	users, err = svc.Search("nobody")
	assert.NoError(t, err)
	assert.Empty(t, users)
}

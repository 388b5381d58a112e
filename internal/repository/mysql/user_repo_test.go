package mysql

import (
	"testing"
	"time"

	"threads-backend/internal/model"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const insertUserQuery = `INSERT INTO users (id, username, fullname, email, password_hash, image, bio, link, privacy, verified, is_admin, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

func newUserRepoMock(t *testing.T) (*userRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(t, err)
	return NewUserRepository(db), mock, func() { db.Close() }
}

// 注册时用户名还没生成，必须写 NULL
// username 列有唯一索引，两个写入空字符串的用户会在索引上撞键
func TestCreateUnsetUsernameInsertsNull(t *testing.T) {
	repo, mock, closeDB := newUserRepoMock(t)
	defer closeDB()

	for _, email := range []string{"first@example.com", "second@example.com"} {
		mock.ExpectExec(insertUserQuery).
			WithArgs(sqlmock.AnyArg(), nil, "", email, "hash", "", "", "", "PUBLIC", false, false).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Create(&model.User{Email: email, PasswordHash: "hash"}))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithUsernameInsertsValue(t *testing.T) {
	repo, mock, closeDB := newUserRepoMock(t)
	defer closeDB()

	mock.ExpectExec(insertUserQuery).
		WithArgs(sqlmock.AnyArg(), "jane_doe", "Jane Doe", "jane@example.com", "hash", "", "", "", "PUBLIC", true, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &model.User{
		Username:     "jane_doe",
		Fullname:     "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: "hash",
		Verified:     true,
	}
	assert.NoError(t, repo.Create(user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDScansNullUsername(t *testing.T) {
	repo, mock, closeDB := newUserRepoMock(t)
	defer closeDB()

	now := time.Now()
	columns := []string{"id", "username", "fullname", "email", "password_hash", "image", "bio", "link", "privacy", "verified", "is_admin", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT id, username, fullname, email, password_hash, image, bio, link, privacy, verified, is_admin, created_at, updated_at FROM users WHERE id = ?`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("user-1", nil, "Jane Doe", "jane@example.com", "hash", "", "", "", "PUBLIC", false, false, now, now))

	user, err := repo.FindByID("user-1")
	assert.NoError(t, err)
	assert.Equal(t, "", user.Username)
	assert.Equal(t, "Jane Doe", user.Fullname)
	assert.NoError(t, mock.ExpectationsWereMet())
}

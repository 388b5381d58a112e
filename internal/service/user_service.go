package service

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"threads-backend/internal/errors"
	"threads-backend/internal/model"
	"threads-backend/internal/repository/interfaces"
	"threads-backend/internal/util"

	"go.uber.org/zap"

	"golang.org/x/crypto/bcrypt"
)

// 个人简介长度上限，与前端表单保持一致
const maxBioLength = 100

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo         interfaces.UserRepository
	notificationRepo interfaces.NotificationRepository
	adminUserID      string // 欢迎通知的发送者
	tokenBlacklist   map[string]time.Time
	blacklistMutex   sync.RWMutex
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, notificationRepo interfaces.NotificationRepository, adminUserID string) *UserService {
	return &UserService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		adminUserID:      adminUserID,
		tokenBlacklist:   make(map[string]time.Time),
	}
}

// IsUsernameTaken 检查用户名是否已被使用
func (s *UserService) IsUsernameTaken(username string) (bool, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Register 注册新用户
func (s *UserService) Register(user *model.User) error {
	existing, err := s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "email already registered")
	}

	if user.Username != "" {
		taken, err := s.IsUsernameTaken(user.Username)
		if err != nil {
			return err
		}
		if taken {
			return errors.New(errors.ErrUserExists, "username already exists")
		}
	}

	// 生成密码哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)

	return s.userRepo.Create(user)
}

// Login 用户登录
func (s *UserService) Login(email, password string) (*model.User, error) {
	log.Printf("尝试用户登录：%s", email)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Printf("用户登录失败，未找到用户：%s", email)
		return nil, errors.New(errors.ErrInvalidCredentials, "incorrect email or password")
	}

	// 验证密码
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		log.Printf("用户登录失败，密码不正确：%v", err)
		return nil, errors.New(errors.ErrInvalidCredentials, "incorrect email or password")
	}

	log.Printf("用户登录成功：ID=%s", user.ID)
	return user, nil
}

// Logout 将令牌加入黑名单
func (s *UserService) Logout(token string) error {
	s.blacklistMutex.Lock()
	s.tokenBlacklist[token] = time.Now().Add(24 * time.Hour) // 令牌在黑名单中保留24小时
	s.blacklistMutex.Unlock()
	util.Logger.Info("用户注销，令牌已加入黑名单")
	return nil
}

// IsTokenBlacklisted 检查令牌是否在黑名单中
func (s *UserService) IsTokenBlacklisted(token string) bool {
	s.blacklistMutex.RLock()
	defer s.blacklistMutex.RUnlock()
	expiry, exists := s.tokenBlacklist[token]
	if !exists {
		return false
	}
	if time.Now().After(expiry) {
		return false
	}
	return true
}

// AccountSetup 完成注册后的资料设置
// 按邮箱幂等：已完成设置的账号直接返回现有资料，不重复发欢迎通知
func (s *UserService) AccountSetup(userID, bio, link string, privacy model.Privacy) (*model.User, error) {
	if len(bio) > maxBioLength {
		return nil, errors.New(errors.ErrValidation, fmt.Sprintf("bio must be at most %d characters", maxBioLength))
	}
	if !util.IsValidProfileLink(link) {
		return nil, errors.New(errors.ErrValidation, "link must be an https URL")
	}
	if privacy == "" {
		privacy = model.PrivacyPublic
	}
	if privacy != model.PrivacyPublic && privacy != model.PrivacyPrivate {
		return nil, errors.New(errors.ErrValidation, "invalid privacy value")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	if user.Verified {
		// 已经完成过设置
		return user, nil
	}

	if user.Username == "" {
		user.Username, err = s.deriveUsername(user)
		if err != nil {
			return nil, err
		}
	}
	user.Bio = bio
	user.Link = link
	user.Privacy = privacy
	user.Verified = true

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	welcome := &model.Notification{
		Type:           model.NotificationAdmin,
		IsPublic:       false,
		SenderUserID:   s.adminUserID,
		ReceiverUserID: user.ID,
		Message: fmt.Sprintf("Hey %s! Welcome to Threads. I hope you like this project. "+
			"If so, please make sure to give it a star on GitHub and share your views on Twitter. Thanks.", user.Fullname),
	}
	if err := s.notificationRepo.Create(welcome); err != nil {
		util.Logger.Error("发送欢迎通知失败", zap.Error(err), zap.String("user_id", user.ID))
		// 资料已保存，通知失败不回滚
	}

	util.Logger.Info("账号设置完成",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))
	return user, nil
}

// deriveUsername 优先从全名派生用户名，退回邮箱本地部分，冲突时追加数字后缀
func (s *UserService) deriveUsername(user *model.User) (string, error) {
	base := util.UsernameFromFullname(user.Fullname)
	if base == "" {
		base = util.UsernameFromEmail(user.Email)
	}
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := s.IsUsernameTaken(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return user, nil
}

// GetUserInfo 按用户名返回公开资料，附带关注关系
func (s *UserService) GetUserInfo(username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	user.Followers, err = s.userRepo.GetFollowers(user.ID)
	if err != nil {
		return nil, err
	}
	user.Following, err = s.userRepo.GetFollowing(user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile 更新用户资料
func (s *UserService) UpdateProfile(user *model.User) error {
	if len(user.Bio) > maxBioLength {
		return errors.New(errors.ErrValidation, fmt.Sprintf("bio must be at most %d characters", maxBioLength))
	}
	if !util.IsValidProfileLink(user.Link) {
		return errors.New(errors.ErrValidation, "link must be an https URL")
	}

	existing, err := s.userRepo.FindByID(user.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	existing.Fullname = user.Fullname
	existing.Bio = user.Bio
	existing.Link = user.Link
	if user.Privacy != "" {
		existing.Privacy = user.Privacy
	}
	return s.userRepo.Update(existing)
}

// UpdateAvatar 更新用户头像地址
func (s *UserService) UpdateAvatar(userID, imageURL string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	user.Image = imageURL
	return s.userRepo.Update(user)
}

// AllUsers 按 (createdAt, id) 倒序游标分页返回用户列表
func (s *UserService) AllUsers(limit int, cursor *model.FeedCursor) ([]*model.User, *model.FeedCursor, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	users, err := s.userRepo.ListPage(limit+1, cursor)
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *model.FeedCursor
	if len(users) > limit {
		// 多取的一条只用来生成下一页游标
		next := users[limit]
		users = users[:limit]
		nextCursor = &model.FeedCursor{ID: next.ID, CreatedAt: next.CreatedAt}
	}
	return users, nextCursor, nil
}

// UserServiceInterface 供处理器层依赖，便于测试时替换
type UserServiceInterface interface {
	Register(user *model.User) error
	Login(email, password string) (*model.User, error)
	Logout(token string) error
	IsTokenBlacklisted(token string) bool
	AccountSetup(userID, bio, link string, privacy model.Privacy) (*model.User, error)
	GetUserByID(id string) (*model.User, error)
	GetUserInfo(username string) (*model.User, error)
	UpdateProfile(user *model.User) error
	UpdateAvatar(userID, imageURL string) error
	AllUsers(limit int, cursor *model.FeedCursor) ([]*model.User, *model.FeedCursor, error)
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)

package service

import (
	"threads-backend/internal/errors"
	"threads-backend/internal/model"
	"threads-backend/internal/repository/interfaces"
	"threads-backend/internal/util"

	"go.uber.org/zap"
)

// AdminService 处理管理端业务逻辑
type AdminService struct {
	adminRepo       interfaces.AdminRepository
	userRepo        interfaces.UserRepository
	interactionRepo interfaces.InteractionRepository
}

// NewAdminService 创建一个新的 AdminService 实例
func NewAdminService(adminRepo interfaces.AdminRepository, userRepo interfaces.UserRepository, interactionRepo interfaces.InteractionRepository) *AdminService {
	return &AdminService{
		adminRepo:       adminRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
	}
}

// GetSystemStats 返回系统整体统计
// 点赞和转发的计数由互动存储库提供，其余由管理端存储库汇总
func (s *AdminService) GetSystemStats() (*model.SystemStats, error) {
	stats, err := s.adminRepo.GetSystemStats()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取系统统计失败", err)
	}
	if stats.TotalLikes, err = s.interactionRepo.CountLikes(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取点赞统计失败", err)
	}
	if stats.TotalReposts, err = s.interactionRepo.CountReposts(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "获取转发统计失败", err)
	}
	return stats, nil
}

// PurgeSeedData 清空非管理员用户及其全部内容，仅用于测试数据重置
func (s *AdminService) PurgeSeedData() error {
	if err := s.adminRepo.PurgeSeedData(); err != nil {
		return errors.Wrap(errors.ErrDatabase, "清理数据失败", err)
	}
	util.Logger.Warn("已清空非管理员数据")
	return nil
}

// SetUserRole 设置用户的管理员标志
func (s *AdminService) SetUserRole(userID string, isAdmin bool) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	user.IsAdmin = isAdmin
	if err := s.userRepo.Update(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "更新用户失败", err)
	}
	util.Logger.Info("用户角色已更新", zap.String("user_id", userID), zap.Bool("is_admin", isAdmin))
	return nil
}

// SetUserVerified 设置用户的认证标志
func (s *AdminService) SetUserVerified(userID string, verified bool) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	user.Verified = verified
	return s.userRepo.Update(user)
}

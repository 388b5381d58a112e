package interfaces

import "threads-backend/internal/model"

// AdminRepository 定义了管理端的数据库操作接口
type AdminRepository interface {
	// PurgeSeedData 批量清空非管理员用户产生的内容，仅用于测试数据播种
	PurgeSeedData() error
	GetSystemStats() (*model.SystemStats, error)
}

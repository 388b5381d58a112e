package storage

import (
	"fmt"
	"mime/multipart"

	"threads-backend/config"
)

// Storage 是图片存储后端的统一接口
type Storage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}

// New 根据配置选择存储驱动
func New(cfg config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(cfg.GCSBucketName, cfg.GCSCredentials)
	case "local", "":
		return NewLocalStorage(cfg.LocalStoragePath)
	default:
		return nil, fmt.Errorf("未知的存储驱动: %s", cfg.StorageDriver)
	}
}

package util

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// GenerateUniqueFilename 生成唯一的文件名，用户上传的原名里的空格替换为下划线
func GenerateUniqueFilename(originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	name := filepath.Base(originalFilename)
	name = strings.ReplaceAll(name[:len(name)-len(ext)], " ", "_")

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	return name + "_" + timestamp + ext
}

// AvatarObjectPath 返回用户头像在存储桶内的对象路径
func AvatarObjectPath(userID, originalFilename string) string {
	return fmt.Sprintf("avatars/%s/%s", userID, GenerateUniqueFilename(originalFilename))
}

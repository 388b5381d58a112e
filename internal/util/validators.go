package util

import (
	"net/url"

	"github.com/go-playground/validator/v10"
)

// ValidateHTTPSLink 验证个人主页链接必须是 https 地址（允许为空）
func ValidateHTTPSLink(fl validator.FieldLevel) bool {
	link, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return IsValidProfileLink(link)
}

// IsValidProfileLink 解析 URL 并检查协议，空链接视为合法
func IsValidProfileLink(link string) bool {
	if link == "" {
		return true
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	return parsed.Scheme == "https" && parsed.Host != ""
}

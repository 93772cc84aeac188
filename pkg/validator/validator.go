// Package validator 提供参数验证工具
package validator

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseUserID 解析并校验 Telegram 用户 ID，要求 9~10 位正整数
func ParseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	if err := ValidateUserID(id); err != nil {
		return 0, err
	}
	return id, nil
}

// ValidateUserID 校验用户 ID 长度
func ValidateUserID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid user id %d", id)
	}
	n := len(strconv.FormatInt(id, 10))
	if n < 9 || n > 10 {
		return fmt.Errorf("invalid telegram id length: %d", id)
	}
	return nil
}

// ParseChatID 解析频道/群组 ID，必须为负数
func ParseChatID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid channel id %q", s)
	}
	if id >= 0 {
		return 0, fmt.Errorf("channel id must be negative: %d", id)
	}
	return id, nil
}

// ValidateURL 校验 http/https 链接
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("url host is empty")
	}
	return nil
}

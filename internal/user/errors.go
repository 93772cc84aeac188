// Package user 领域错误定义
package user

import (
	"errors"
	"fmt"
)

// 领域错误定义
var (
	// ErrNotFound 用户不存在
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists 用户已存在
	ErrAlreadyExists = errors.New("user already exists")
)

// NotFoundError 创建用户不存在错误
func NotFoundError(telegramID int64) error {
	return fmt.Errorf("user with telegram_id %d: %w", telegramID, ErrNotFound)
}

// AlreadyExistsError 创建用户已存在错误
func AlreadyExistsError(telegramID int64) error {
	return fmt.Errorf("user with telegram_id %d: %w", telegramID, ErrAlreadyExists)
}

// Package user 存储接口定义
package user

import "context"

// Store 用户存储接口
type Store interface {
	// Create 创建用户
	Create(ctx context.Context, user *User) error

	// GetByTelegramID 根据 Telegram ID 获取用户
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)

	// ListIDs 列出全部用户的 Telegram ID
	ListIDs(ctx context.Context) ([]int64, error)

	// Delete 按 Telegram ID 删除用户
	Delete(ctx context.Context, telegramID int64) error

	// Count 统计用户数量
	Count(ctx context.Context) (int64, error)
}

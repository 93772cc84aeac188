// Package sqlstore 基于 gorm 的存储实现，SQLite 与 MySQL 共用
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"links-share-bot/internal/user"
)

// UserStore 用户存储实现
type UserStore struct {
	db *gorm.DB
}

// NewUserStore 创建用户存储实例
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create 创建用户
func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.AlreadyExistsError(u.TelegramID)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByTelegramID 根据 Telegram ID 获取用户
func (s *UserStore) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	var u user.User
	if err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.NotFoundError(telegramID)
		}
		return nil, fmt.Errorf("get user by telegram_id: %w", err)
	}
	return &u, nil
}

// ListIDs 按注册顺序列出全部 Telegram ID
func (s *UserStore) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&user.User{}).Order("id ASC").Pluck("telegram_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

// Delete 按 Telegram ID 删除用户
func (s *UserStore) Delete(ctx context.Context, telegramID int64) error {
	result := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).Delete(&user.User{})
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.NotFoundError(telegramID)
	}
	return nil
}

// Count 统计用户数量
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&user.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

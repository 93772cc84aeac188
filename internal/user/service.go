// Package user 用户业务服务
package user

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Service 用户业务服务
type Service struct {
	store Store
}

// NewService 创建用户服务实例
func NewService(store Store) *Service {
	if store == nil {
		panic("user.NewService: store cannot be nil")
	}
	return &Service{
		store: store,
	}
}

// GetOrCreate 获取或创建用户
// 如果用户不存在则自动创建
func (s *Service) GetOrCreate(ctx context.Context, tgUser *tgbotapi.User) (*User, error) {
	user, err := s.store.GetByTelegramID(ctx, tgUser.ID)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user = &User{
		TelegramID: tgUser.ID,
		Username:   tgUser.UserName,
		FirstName:  tgUser.FirstName,
		LastName:   tgUser.LastName,
	}

	if err := s.store.Create(ctx, user); err != nil {
		// 并发 /start 时另一条更新已经创建
		if errors.Is(err, ErrAlreadyExists) {
			return s.store.GetByTelegramID(ctx, tgUser.ID)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Exists 用户是否在用户库中
func (s *Service) Exists(ctx context.Context, telegramID int64) (bool, error) {
	_, err := s.store.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("get user: %w", err)
}

// ListIDs 全部用户 ID，广播使用
func (s *Service) ListIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

// Delete 删除用户，用户不存在时不报错
func (s *Service) Delete(ctx context.Context, telegramID int64) error {
	if err := s.store.Delete(ctx, telegramID); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Count 统计用户数量
func (s *Service) Count(ctx context.Context) (int64, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"links-share-bot/internal/ban"
)

type BanStore struct {
	db *gorm.DB
}

func NewBanStore(db *gorm.DB) *BanStore {
	return &BanStore{db: db}
}

func (s *BanStore) Add(ctx context.Context, telegramID int64) error {
	if err := s.db.WithContext(ctx).Create(&ban.Entry{TelegramID: telegramID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ban.AlreadyBannedError(telegramID)
		}
		return fmt.Errorf("add ban: %w", err)
	}
	return nil
}

func (s *BanStore) Remove(ctx context.Context, telegramID int64) error {
	result := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).Delete(&ban.Entry{})
	if result.Error != nil {
		return fmt.Errorf("remove ban: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ban.NotFoundError(telegramID)
	}
	return nil
}

// Clear 在事务内读取并清空名单
func (s *BanStore) Clear(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ban.Entry{}).Order("id ASC").Pluck("telegram_id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Where("telegram_id IN ?", ids).Delete(&ban.Entry{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("clear bans: %w", err)
	}
	return ids, nil
}

func (s *BanStore) Exists(ctx context.Context, telegramID int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&ban.Entry{}).Where("telegram_id = ?", telegramID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check ban: %w", err)
	}
	return count > 0, nil
}

func (s *BanStore) List(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&ban.Entry{}).Order("id ASC").Pluck("telegram_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	return ids, nil
}

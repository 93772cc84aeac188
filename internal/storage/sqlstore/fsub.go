package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"links-share-bot/internal/fsub"
)

type FSubStore struct {
	db *gorm.DB
}

func NewFSubStore(db *gorm.DB) *FSubStore {
	return &FSubStore{db: db}
}

func (s *FSubStore) Add(ctx context.Context, channelID int64) error {
	if err := s.db.WithContext(ctx).Create(&fsub.Channel{ChannelID: channelID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fsub.AlreadyExistsError(channelID)
		}
		return fmt.Errorf("add fsub channel: %w", err)
	}
	return nil
}

func (s *FSubStore) Remove(ctx context.Context, channelID int64) error {
	result := s.db.WithContext(ctx).Where("channel_id = ?", channelID).Delete(&fsub.Channel{})
	if result.Error != nil {
		return fmt.Errorf("remove fsub channel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fsub.NotFoundError(channelID)
	}
	return nil
}

func (s *FSubStore) List(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&fsub.Channel{}).Order("id ASC").Pluck("channel_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list fsub channels: %w", err)
	}
	return ids, nil
}

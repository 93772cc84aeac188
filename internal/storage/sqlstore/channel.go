package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"links-share-bot/internal/channel"
)

// ChannelStore 频道与当前邀请链接存储
type ChannelStore struct {
	db *gorm.DB
}

func NewChannelStore(db *gorm.DB) *ChannelStore {
	return &ChannelStore{db: db}
}

// Save 按 channel_id upsert，冲突时只更新基础信息
func (s *ChannelStore) Save(ctx context.Context, ch *channel.Channel) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "encoded_link", "req_encoded_link", "updated_at"}),
	}).Create(ch).Error
	if err != nil {
		return fmt.Errorf("save channel: %w", err)
	}
	return nil
}

func (s *ChannelStore) Get(ctx context.Context, channelID int64) (*channel.Channel, error) {
	var ch channel.Channel
	if err := s.db.WithContext(ctx).Where("channel_id = ?", channelID).First(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, channel.NotFoundError(channelID)
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return &ch, nil
}

func (s *ChannelStore) Delete(ctx context.Context, channelID int64) error {
	result := s.db.WithContext(ctx).Where("channel_id = ?", channelID).Delete(&channel.Channel{})
	if result.Error != nil {
		return fmt.Errorf("delete channel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return channel.NotFoundError(channelID)
	}
	return nil
}

func (s *ChannelStore) List(ctx context.Context) ([]*channel.Channel, error) {
	var channels []*channel.Channel
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&channels).Error; err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}

func (s *ChannelStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&channel.Channel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count channels: %w", err)
	}
	return count, nil
}

// SetInvite 覆盖当前邀请链接，频道行不存在时创建
func (s *ChannelStore) SetInvite(ctx context.Context, channelID int64, link string, isRequest bool, createdAt time.Time) error {
	ch := &channel.Channel{
		ChannelID:           channelID,
		InviteLink:          link,
		IsRequest:           isRequest,
		InviteLinkCreatedAt: &createdAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"invite_link", "is_request", "invite_link_created_at", "updated_at"}),
	}).Create(ch).Error
	if err != nil {
		return fmt.Errorf("set invite: %w", err)
	}
	return nil
}

func (s *ChannelStore) SetOriginalLink(ctx context.Context, channelID int64, link string) error {
	result := s.db.WithContext(ctx).
		Model(&channel.Channel{}).
		Where("channel_id = ?", channelID).
		Update("original_link", link)
	if result.Error != nil {
		return fmt.Errorf("set original link: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL 在值未变化时返回 0 行
	if _, err := s.Get(ctx, channelID); err != nil {
		return err
	}
	return nil
}

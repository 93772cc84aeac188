package channel

import (
	"context"
	"time"
)

// Store 频道存储接口
type Store interface {
	// Save 按 channel_id 新增或更新频道基础信息，不修改邀请字段
	Save(ctx context.Context, ch *Channel) error

	// Get 不存在时返回 ErrNotFound
	Get(ctx context.Context, channelID int64) (*Channel, error)

	// Delete 不存在时返回 ErrNotFound
	Delete(ctx context.Context, channelID int64) error

	List(ctx context.Context) ([]*Channel, error)

	Count(ctx context.Context) (int64, error)

	// SetInvite 覆盖频道当前邀请链接
	SetInvite(ctx context.Context, channelID int64, link string, isRequest bool, createdAt time.Time) error

	// SetOriginalLink 空字符串表示清除
	SetOriginalLink(ctx context.Context, channelID int64, link string) error
}

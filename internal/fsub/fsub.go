// Package fsub 强制订阅频道管理与成员检查
package fsub

import (
	"time"

	"links-share-bot/internal/platform"
)

// Channel 强制订阅频道
type Channel struct {
	ID        uint      `gorm:"primarykey" bson:"-" json:"id"`
	ChannelID int64     `gorm:"uniqueIndex;not null" bson:"channel_id" json:"channel_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (Channel) TableName() string {
	return "fsub_channels"
}

// JoinTarget 未加入频道的加入按钮
type JoinTarget struct {
	ChannelID int64
	Title     string
	URL       string
}

// Listing /fsublist 的一行
type Listing struct {
	ChannelID int64
	Chat      platform.Chat
	Err       error
}

// Options 服务参数
type Options struct {
	PrivateLinkExpiry time.Duration
	Concurrency       int
	Now               func() time.Time
}

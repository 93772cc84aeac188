package fsub

import (
	"context"
	"time"

	"links-share-bot/internal/platform"
)

type Store interface {
	// Add 已存在时返回 ErrAlreadyExists
	Add(ctx context.Context, channelID int64) error

	// Remove 不存在时返回 ErrNotFound
	Remove(ctx context.Context, channelID int64) error

	// List 按添加顺序返回
	List(ctx context.Context) ([]int64, error)
}

// Platform 成员检查需要的平台接口
type Platform interface {
	GetChat(ctx context.Context, chatID int64) (platform.Chat, error)
	GetMemberStatus(ctx context.Context, chatID, userID int64) (platform.MemberStatus, error)
	CreateInviteLink(ctx context.Context, chatID int64, expireAt time.Time, createsJoinRequest bool) (string, error)
}

package invitelink

import (
	"context"
	"time"
)

// Store 邀请记录存储，单键读写，无事务要求
type Store interface {
	// GetInviteRecord 不存在时返回 ErrNotFound
	GetInviteRecord(ctx context.Context, channelID int64) (*Record, error)

	// PutInviteRecord 覆盖频道已有记录
	PutInviteRecord(ctx context.Context, rec *Record) error

	// GetOriginalLink 频道未配置原始链接时返回空字符串
	GetOriginalLink(ctx context.Context, channelID int64) (string, error)
}

// Platform 聊天平台的邀请链接接口
type Platform interface {
	CreateInviteLink(ctx context.Context, chatID int64, expireAt time.Time, createsJoinRequest bool) (string, error)
	RevokeInviteLink(ctx context.Context, chatID int64, link string) error
}

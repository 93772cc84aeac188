// Package invitelink 频道邀请链接的发放、复用与撤销
package invitelink

import "time"

// Record 频道当前有效的邀请链接，每个频道最多一条
type Record struct {
	ChannelID  int64
	InviteLink string
	IsRequest  bool
	CreatedAt  time.Time
}

// Age 记录从创建到 now 的时长
func (r *Record) Age(now time.Time) time.Duration {
	return now.Sub(r.CreatedAt)
}

// Result EnsureInvite 的返回值
type Result struct {
	Link      string
	IsRequest bool
	// Passthrough 为 true 表示返回的是频道配置的外部原始链接，不是 Bot 生成的邀请链接
	Passthrough bool
}

// Options 发放参数，三个时长互不推导
type Options struct {
	FreshWindow time.Duration // 记录在此时长内直接复用
	LinkExpiry  time.Duration // 新建链接在平台侧的过期时长
	RevokeDelay time.Duration // 新建后延迟撤销的时长
	Now         func() time.Time
}

const (
	DefaultFreshWindow = 4 * time.Minute
	DefaultLinkExpiry  = 10 * time.Minute
	DefaultRevokeDelay = 5 * time.Minute
)

func (o Options) withDefaults() Options {
	if o.FreshWindow <= 0 {
		o.FreshWindow = DefaultFreshWindow
	}
	if o.LinkExpiry <= 0 {
		o.LinkExpiry = DefaultLinkExpiry
	}
	if o.RevokeDelay <= 0 {
		o.RevokeDelay = DefaultRevokeDelay
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

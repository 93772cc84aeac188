// Package gatekeeper 组合进程级的发放与准入组件
//
// 频道锁、聊天元数据缓存与临时封禁都挂在这里，由 New 创建、Close 统一释放。
package gatekeeper

import (
	"context"
	"time"

	"links-share-bot/internal/antispam"
	"links-share-bot/internal/config"
	"links-share-bot/internal/fsub"
	"links-share-bot/internal/invitelink"
)

// Platform 发放邀请与成员检查需要的平台能力
type Platform interface {
	invitelink.Platform
	fsub.Platform
}

type Deps struct {
	Invites  invitelink.Store
	FSub     fsub.Store
	Platform Platform
}

type Options struct {
	Invite   config.InviteConfig
	FSub     config.FSubConfig
	AntiSpam config.AntiSpamConfig
	Now      func() time.Time
}

type Gatekeeper struct {
	Invites *invitelink.Manager
	Chats   *fsub.ChatCache
	FSub    *fsub.Service
	Guard   *antispam.Guard
}

func New(deps Deps, opts Options) *Gatekeeper {
	chats := fsub.NewChatCache(deps.Platform.GetChat)

	return &Gatekeeper{
		Invites: invitelink.NewManager(deps.Invites, deps.Platform, invitelink.Options{
			FreshWindow: opts.Invite.FreshWindow,
			LinkExpiry:  opts.Invite.LinkExpiry,
			RevokeDelay: opts.Invite.RevokeDelay,
			Now:         opts.Now,
		}),
		Chats: chats,
		FSub: fsub.NewService(deps.FSub, deps.Platform, chats, fsub.Options{
			PrivateLinkExpiry: opts.FSub.PrivateLinkExpiry,
			Now:               opts.Now,
		}),
		Guard: antispam.NewGuard(antispam.Options{
			MaxMessages: opts.AntiSpam.MaxMessages,
			Window:      opts.AntiSpam.Window,
			BanDuration: opts.AntiSpam.BanDuration,
			Now:         opts.Now,
		}),
	}
}

// Verdict 刷屏检查结果
type Verdict struct {
	// Blocked 本条消息不处理
	Blocked bool
	// JustBanned 本条消息触发了封禁，需要通知用户一次
	JustBanned bool
	Until      time.Time
}

// Flood 记录一条消息并判断是否处于临时封禁，管理员不受限制
func (g *Gatekeeper) Flood(userID int64, isAdmin bool) Verdict {
	if isAdmin {
		return Verdict{}
	}
	if until, banned := g.Guard.BannedUntil(userID); banned {
		return Verdict{Blocked: true, Until: until}
	}
	if g.Guard.Hit(userID) {
		until, _ := g.Guard.BannedUntil(userID)
		return Verdict{Blocked: true, JustBanned: true, Until: until}
	}
	return Verdict{}
}

// EnsureInvite 见 invitelink.Manager.EnsureInvite
func (g *Gatekeeper) EnsureInvite(ctx context.Context, channelID int64, isRequest bool) (invitelink.Result, error) {
	return g.Invites.EnsureInvite(ctx, channelID, isRequest)
}

// Close 取消未执行的延迟撤销并停止清理任务
func (g *Gatekeeper) Close() {
	g.Invites.Close()
	g.Guard.Stop()
	g.Chats.Clear()
}

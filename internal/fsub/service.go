package fsub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"links-share-bot/internal/logger"
	"links-share-bot/internal/metrics"
	"links-share-bot/internal/platform"
)

const defaultConcurrency = 4

type Service struct {
	store    Store
	platform Platform
	chats    *ChatCache
	opts     Options
}

func NewService(store Store, p Platform, chats *ChatCache, opts Options) *Service {
	if store == nil {
		panic("fsub.NewService: store cannot be nil")
	}
	if p == nil {
		panic("fsub.NewService: platform cannot be nil")
	}
	if chats == nil {
		chats = NewChatCache(p.GetChat)
	}
	if opts.PrivateLinkExpiry <= 0 {
		opts.PrivateLinkExpiry = time.Hour
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: store, platform: p, chats: chats, opts: opts}
}

// Add 添加强制订阅频道，要求 Bot 是该频道管理员
func (s *Service) Add(ctx context.Context, channelID, botID int64) (platform.Chat, error) {
	chat, err := s.platform.GetChat(ctx, channelID)
	if err != nil {
		return platform.Chat{}, fmt.Errorf("get chat: %w", err)
	}

	status, err := s.platform.GetMemberStatus(ctx, channelID, botID)
	if err != nil {
		return chat, fmt.Errorf("get bot member status: %w", err)
	}
	if !status.IsAdmin() {
		return chat, BotNotAdminError(chat.Title)
	}

	if err := s.store.Add(ctx, channelID); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return chat, AlreadyExistsError(channelID)
		}
		return chat, fmt.Errorf("add fsub channel: %w", err)
	}

	s.chats.Invalidate(channelID)
	return chat, nil
}

func (s *Service) Remove(ctx context.Context, channelID int64) error {
	if err := s.store.Remove(ctx, channelID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFoundError(channelID)
		}
		return fmt.Errorf("remove fsub channel: %w", err)
	}
	s.chats.Invalidate(channelID)
	return nil
}

func (s *Service) Channels(ctx context.Context) ([]int64, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fsub channels: %w", err)
	}
	return ids, nil
}

// Describe 列出频道及其元数据，单个频道获取失败记录在 Listing.Err
func (s *Service) Describe(ctx context.Context) ([]Listing, error) {
	ids, err := s.Channels(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, len(ids))
	for i, id := range ids {
		chat, err := s.chats.Get(ctx, id)
		listings[i] = Listing{ChannelID: id, Chat: chat, Err: err}
	}
	return listings, nil
}

// Missing 返回用户尚未加入的频道及加入链接，结果为空表示可以放行
// 公开频道使用 t.me 用户名链接，私有频道生成临时邀请链接。
// 未配置频道或读取名单失败时放行。
func (s *Service) Missing(ctx context.Context, userID int64) ([]JoinTarget, error) {
	ids, err := s.Channels(ctx)
	if err != nil {
		logger.ErrorKV("failed to load fsub channels", "error", err)
		return nil, nil
	}
	if len(ids) == 0 {
		return nil, nil
	}

	joined := s.checkAll(ctx, ids, userID)

	targets := make([]*JoinTarget, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, id := range ids {
		if joined[i] {
			continue
		}
		g.Go(func() error {
			target, err := s.joinTarget(gctx, id)
			if err != nil {
				return fmt.Errorf("chat %d: %w", id, err)
			}
			targets[i] = &target
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]JoinTarget, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *Service) joinTarget(ctx context.Context, channelID int64) (JoinTarget, error) {
	chat, err := s.chats.Get(ctx, channelID)
	if err != nil {
		return JoinTarget{}, fmt.Errorf("get chat: %w", err)
	}

	link := chat.PublicLink()
	if link == "" {
		link, err = s.platform.CreateInviteLink(ctx, channelID, s.opts.Now().Add(s.opts.PrivateLinkExpiry), false)
		if err != nil {
			return JoinTarget{}, fmt.Errorf("create invite link: %w", err)
		}
	}

	return JoinTarget{ChannelID: channelID, Title: chat.Title, URL: link}, nil
}

// checkAll 并发检查成员状态，结果与 ids 顺序一致
func (s *Service) checkAll(ctx context.Context, ids []int64, userID int64) []bool {
	joined := make([]bool, len(ids))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			joined[i] = s.isMember(ctx, id, userID)
			return nil
		})
	}
	_ = g.Wait()

	return joined
}

// isMember 未加入返回 false，其他错误放行
func (s *Service) isMember(ctx context.Context, channelID, userID int64) bool {
	status, err := s.platform.GetMemberStatus(ctx, channelID, userID)
	if err != nil {
		if errors.Is(err, platform.ErrNotParticipant) {
			metrics.FSubChecks.WithLabelValues("missing").Inc()
			return false
		}
		metrics.FSubChecks.WithLabelValues("error").Inc()
		logger.WarnKV("membership check failed, allowing access", "channel_id", channelID, "user_id", userID, "error", err)
		return true
	}

	if status.IsJoined() {
		metrics.FSubChecks.WithLabelValues("joined").Inc()
		return true
	}
	metrics.FSubChecks.WithLabelValues("missing").Inc()
	return false
}

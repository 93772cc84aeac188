package channel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"links-share-bot/internal/invitelink"
	"links-share-bot/pkg/deeplink"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	if store == nil {
		panic("channel.NewService: store cannot be nil")
	}
	return &Service{store: store}
}

// Add 保存频道并生成普通/申请两种深链 token
func (s *Service) Add(ctx context.Context, channelID int64, title string) (*Channel, error) {
	token := deeplink.Encode(channelID)
	ch := &Channel{
		ChannelID:      channelID,
		Title:          title,
		EncodedLink:    token,
		ReqEncodedLink: token,
	}
	if err := s.store.Save(ctx, ch); err != nil {
		return nil, fmt.Errorf("save channel: %w", err)
	}
	return ch, nil
}

func (s *Service) Remove(ctx context.Context, channelID int64) error {
	if err := s.store.Delete(ctx, channelID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFoundError(channelID)
		}
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, channelID int64) (*Channel, error) {
	ch, err := s.store.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError(channelID)
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return ch, nil
}

func (s *Service) List(ctx context.Context) ([]*Channel, error) {
	channels, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count channels: %w", err)
	}
	return n, nil
}

// Resolve 解析 /start 参数为已保存的频道
func (s *Service) Resolve(ctx context.Context, payload string) (channelID int64, isRequest bool, err error) {
	p := deeplink.ParsePayload(payload)
	if p.Token == "" {
		return 0, false, InvalidTokenError(payload)
	}

	id, err := deeplink.Decode(p.Token)
	if err != nil {
		return 0, false, InvalidTokenError(payload)
	}

	ch, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, false, InvalidTokenError(payload)
		}
		return 0, false, fmt.Errorf("get channel: %w", err)
	}

	stored := ch.EncodedLink
	if p.IsRequest {
		stored = ch.ReqEncodedLink
	}
	if stored != strings.TrimRight(p.Token, "=") {
		return 0, false, InvalidTokenError(payload)
	}

	return ch.ChannelID, p.IsRequest, nil
}

// SetOriginalLink 设置频道外部原始链接，设置后深链直接返回该链接
func (s *Service) SetOriginalLink(ctx context.Context, channelID int64, link string) error {
	if err := s.store.SetOriginalLink(ctx, channelID, link); err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFoundError(channelID)
		}
		return fmt.Errorf("set original link: %w", err)
	}
	return nil
}

// GetOriginalLink 实现 invitelink.Store
func (s *Service) GetOriginalLink(ctx context.Context, channelID int64) (string, error) {
	ch, err := s.store.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get channel: %w", err)
	}
	return ch.OriginalLink, nil
}

// GetInviteRecord 实现 invitelink.Store
func (s *Service) GetInviteRecord(ctx context.Context, channelID int64) (*invitelink.Record, error) {
	ch, err := s.store.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invitelink.NotFoundError(channelID)
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	if !ch.HasInvite() {
		return nil, invitelink.NotFoundError(channelID)
	}
	return &invitelink.Record{
		ChannelID:  ch.ChannelID,
		InviteLink: ch.InviteLink,
		IsRequest:  ch.IsRequest,
		CreatedAt:  *ch.InviteLinkCreatedAt,
	}, nil
}

// PutInviteRecord 实现 invitelink.Store
func (s *Service) PutInviteRecord(ctx context.Context, rec *invitelink.Record) error {
	if err := s.store.SetInvite(ctx, rec.ChannelID, rec.InviteLink, rec.IsRequest, rec.CreatedAt); err != nil {
		return fmt.Errorf("set invite: %w", err)
	}
	return nil
}

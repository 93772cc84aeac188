package gatekeeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"links-share-bot/internal/config"
	"links-share-bot/internal/invitelink"
	"links-share-bot/internal/platform"
)

type stubPlatform struct {
	mu      sync.Mutex
	creates int
}

func (p *stubPlatform) CreateInviteLink(ctx context.Context, chatID int64, expireAt time.Time, createsJoinRequest bool) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creates++
	return "https://t.me/+stub", nil
}

func (p *stubPlatform) RevokeInviteLink(ctx context.Context, chatID int64, link string) error {
	return nil
}

func (p *stubPlatform) GetChat(ctx context.Context, chatID int64) (platform.Chat, error) {
	return platform.Chat{ID: chatID, Title: "stub"}, nil
}

func (p *stubPlatform) GetMemberStatus(ctx context.Context, chatID, userID int64) (platform.MemberStatus, error) {
	return platform.StatusMember, nil
}

type memInvites struct {
	mu   sync.Mutex
	recs map[int64]invitelink.Record
}

func (s *memInvites) GetInviteRecord(ctx context.Context, channelID int64) (*invitelink.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[channelID]
	if !ok {
		return nil, invitelink.NotFoundError(channelID)
	}
	return &rec, nil
}

func (s *memInvites) PutInviteRecord(ctx context.Context, rec *invitelink.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ChannelID] = *rec
	return nil
}

func (s *memInvites) GetOriginalLink(ctx context.Context, channelID int64) (string, error) {
	return "", nil
}

type memFSub struct{}

func (memFSub) Add(ctx context.Context, id int64) error    { return nil }
func (memFSub) Remove(ctx context.Context, id int64) error { return nil }
func (memFSub) List(ctx context.Context) ([]int64, error)  { return []int64{-100}, nil }

func newGatekeeper(t *testing.T) (*Gatekeeper, *stubPlatform) {
	t.Helper()
	p := &stubPlatform{}
	g := New(Deps{
		Invites:  &memInvites{recs: map[int64]invitelink.Record{}},
		FSub:     memFSub{},
		Platform: p,
	}, Options{
		Invite:   config.InviteConfig{FreshWindow: 4 * time.Minute, LinkExpiry: 10 * time.Minute, RevokeDelay: 5 * time.Minute},
		AntiSpam: config.AntiSpamConfig{MaxMessages: 2, Window: time.Minute, BanDuration: time.Hour},
	})
	return g, p
}

func TestFlood(t *testing.T) {
	g, _ := newGatekeeper(t)
	defer g.Close()

	assert.Equal(t, Verdict{}, g.Flood(1, false))
	assert.Equal(t, Verdict{}, g.Flood(1, false))

	v := g.Flood(1, false)
	assert.True(t, v.Blocked)
	assert.True(t, v.JustBanned)
	assert.False(t, v.Until.IsZero())

	v = g.Flood(1, false)
	assert.True(t, v.Blocked)
	assert.False(t, v.JustBanned)

	for i := 0; i < 10; i++ {
		assert.False(t, g.Flood(2, true).Blocked)
	}
}

func TestEnsureInviteAndClose(t *testing.T) {
	g, p := newGatekeeper(t)
	ctx := context.Background()

	first, err := g.EnsureInvite(ctx, -100, false)
	require.NoError(t, err)
	second, err := g.EnsureInvite(ctx, -100, false)
	require.NoError(t, err)

	assert.Equal(t, first.Link, second.Link)
	assert.Equal(t, 1, p.creates)
	assert.Equal(t, 1, g.Invites.PendingRevokes())

	missing, err := g.FSub.Missing(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, missing)

	g.Close()
	assert.Zero(t, g.Invites.PendingRevokes())
	assert.Zero(t, g.Chats.Len())
}

package channel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"links-share-bot/internal/invitelink"
	"links-share-bot/pkg/deeplink"
)

type memStore struct {
	mu       sync.Mutex
	channels map[int64]*Channel
	err      error
}

func newMemStore() *memStore {
	return &memStore{channels: map[int64]*Channel{}}
}

func (s *memStore) Save(ctx context.Context, ch *Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if existing, ok := s.channels[ch.ChannelID]; ok {
		existing.Title = ch.Title
		existing.EncodedLink = ch.EncodedLink
		existing.ReqEncodedLink = ch.ReqEncodedLink
		return nil
	}
	cp := *ch
	s.channels[ch.ChannelID] = &cp
	return nil
}

func (s *memStore) Get(ctx context.Context, channelID int64) (*Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	ch, ok := s.channels[channelID]
	if !ok {
		return nil, NotFoundError(channelID)
	}
	cp := *ch
	return &cp, nil
}

func (s *memStore) Delete(ctx context.Context, channelID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[channelID]; !ok {
		return NotFoundError(channelID)
	}
	delete(s.channels, channelID)
	return nil
}

func (s *memStore) List(ctx context.Context) ([]*Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		cp := *ch
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.channels)), nil
}

func (s *memStore) SetInvite(ctx context.Context, channelID int64, link string, isRequest bool, createdAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	ch, ok := s.channels[channelID]
	if !ok {
		ch = &Channel{ChannelID: channelID}
		s.channels[channelID] = ch
	}
	ch.InviteLink = link
	ch.IsRequest = isRequest
	ch.InviteLinkCreatedAt = &createdAt
	return nil
}

func (s *memStore) SetOriginalLink(ctx context.Context, channelID int64, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[channelID]
	if !ok {
		return NotFoundError(channelID)
	}
	ch.OriginalLink = link
	return nil
}

const channelID int64 = -1001234567890

func TestAddAndResolve(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())

	ch, err := svc.Add(ctx, channelID, "News")
	require.NoError(t, err)
	assert.Equal(t, deeplink.Encode(channelID), ch.EncodedLink)

	id, isRequest, err := svc.Resolve(ctx, ch.EncodedLink)
	require.NoError(t, err)
	assert.Equal(t, channelID, id)
	assert.False(t, isRequest)

	id, isRequest, err = svc.Resolve(ctx, deeplink.RequestPrefix+ch.ReqEncodedLink)
	require.NoError(t, err)
	assert.Equal(t, channelID, id)
	assert.True(t, isRequest)

	// 带填充的旧 token
	_, _, err = svc.Resolve(ctx, ch.EncodedLink+"=")
	assert.NoError(t, err)
}

func TestResolveInvalid(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())
	_, err := svc.Add(ctx, channelID, "News")
	require.NoError(t, err)

	for _, payload := range []string{
		"",
		"req_",
		"!!notbase64!!",
		deeplink.Encode(-42),
	} {
		t.Run(payload, func(t *testing.T) {
			_, _, err := svc.Resolve(ctx, payload)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestResolveStoreFailure(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("db down")
	svc := NewService(store)

	_, _, err := svc.Resolve(context.Background(), deeplink.Encode(channelID))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestSaveKeepsInvite(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())
	_, err := svc.Add(ctx, channelID, "News")
	require.NoError(t, err)

	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.PutInviteRecord(ctx, &invitelink.Record{
		ChannelID: channelID, InviteLink: "https://t.me/+abc", IsRequest: true, CreatedAt: createdAt,
	}))

	_, err = svc.Add(ctx, channelID, "Renamed")
	require.NoError(t, err)

	rec, err := svc.GetInviteRecord(ctx, channelID)
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/+abc", rec.InviteLink)
	assert.True(t, rec.IsRequest)
	assert.Equal(t, createdAt, rec.CreatedAt)

	ch, err := svc.Get(ctx, channelID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", ch.Title)
}

func TestInviteStore(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())

	_, err := svc.GetInviteRecord(ctx, channelID)
	assert.ErrorIs(t, err, invitelink.ErrNotFound)

	_, err = svc.Add(ctx, channelID, "News")
	require.NoError(t, err)

	_, err = svc.GetInviteRecord(ctx, channelID)
	assert.ErrorIs(t, err, invitelink.ErrNotFound)

	link, err := svc.GetOriginalLink(ctx, channelID)
	require.NoError(t, err)
	assert.Empty(t, link)

	require.NoError(t, svc.SetOriginalLink(ctx, channelID, "https://example.com/join"))
	link, err = svc.GetOriginalLink(ctx, channelID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/join", link)

	link, err = svc.GetOriginalLink(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, link)

	assert.ErrorIs(t, svc.SetOriginalLink(ctx, -1, "x"), ErrNotFound)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())
	_, err := svc.Add(ctx, channelID, "News")
	require.NoError(t, err)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, svc.Remove(ctx, channelID))
	assert.ErrorIs(t, svc.Remove(ctx, channelID), ErrNotFound)

	_, err = svc.Get(ctx, channelID)
	assert.ErrorIs(t, err, ErrNotFound)
}

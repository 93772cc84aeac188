package user

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu    sync.Mutex
	users map[int64]*User
	// racer 模拟另一条更新在 Create 前写入
	racer bool
}

func newMemStore() *memStore {
	return &memStore{users: map[int64]*User{}}
}

func (s *memStore) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.racer {
		cp := *u
		s.users[u.TelegramID] = &cp
		return AlreadyExistsError(u.TelegramID)
	}
	if _, ok := s.users[u.TelegramID]; ok {
		return AlreadyExistsError(u.TelegramID)
	}
	cp := *u
	s.users[u.TelegramID] = &cp
	return nil
}

func (s *memStore) GetByTelegramID(ctx context.Context, telegramID int64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		return nil, NotFoundError(telegramID)
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) ListIDs(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memStore) Delete(ctx context.Context, telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[telegramID]; !ok {
		return NotFoundError(telegramID)
	}
	delete(s.users, telegramID)
	return nil
}

func (s *memStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())
	tg := &tgbotapi.User{ID: 123456789, UserName: "alice", FirstName: "Alice"}

	u, err := svc.GetOrCreate(ctx, tg)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), u.TelegramID)
	assert.Equal(t, "@alice", u.DisplayName())

	again, err := svc.GetOrCreate(ctx, tg)
	require.NoError(t, err)
	assert.Equal(t, u.TelegramID, again.TelegramID)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGetOrCreateConcurrentInsert(t *testing.T) {
	store := newMemStore()
	store.racer = true
	svc := NewService(store)

	u, err := svc.GetOrCreate(context.Background(), &tgbotapi.User{ID: 987654321, FirstName: "Bob", LastName: "B"})
	require.NoError(t, err)
	assert.Equal(t, "Bob B", u.DisplayName())
}

func TestExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())

	ok, err := svc.Exists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.GetOrCreate(ctx, &tgbotapi.User{ID: 1})
	require.NoError(t, err)
	_, err = svc.GetOrCreate(ctx, &tgbotapi.User{ID: 2})
	require.NoError(t, err)

	ok, err = svc.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ids, err := svc.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	require.NoError(t, svc.Delete(ctx, 1))
	require.NoError(t, svc.Delete(ctx, 1))

	ids, err = svc.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}

type failingStore struct{ memStore }

func (failingStore) GetByTelegramID(ctx context.Context, telegramID int64) (*User, error) {
	return nil, errors.New("db down")
}

func TestExistsPropagatesStoreError(t *testing.T) {
	svc := NewService(&failingStore{})

	_, err := svc.Exists(context.Background(), 1)
	assert.Error(t, err)

	_, err = svc.GetOrCreate(context.Background(), &tgbotapi.User{ID: 1})
	assert.Error(t, err)
}

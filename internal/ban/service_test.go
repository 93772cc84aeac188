package ban

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu  sync.Mutex
	ids map[int64]bool
}

func newMemStore(ids ...int64) *memStore {
	s := &memStore{ids: map[int64]bool{}}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

func (s *memStore) Add(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids[id] {
		return AlreadyBannedError(id)
	}
	s.ids[id] = true
	return nil
}

func (s *memStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ids[id] {
		return NotFoundError(id)
	}
	delete(s.ids, id)
	return nil
}

func (s *memStore) Clear(ctx context.Context) ([]int64, error) {
	ids, _ := s.List(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = map[int64]bool{}
	return ids, nil
}

func (s *memStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[id], nil
}

func (s *memStore) List(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type adminSet map[int64]bool

func (a adminSet) IsAdmin(id int64) bool { return a[id] }

func TestBan(t *testing.T) {
	store := newMemStore(222222222)
	svc := NewService(store, adminSet{111111111: true})

	report, err := svc.Ban(context.Background(), []string{"abc", "111111111", "222222222", "12345", "333333333", "4444444444"})
	require.NoError(t, err)

	want := []Outcome{
		{Input: "abc", Result: ResultInvalidID},
		{Input: "111111111", ID: 111111111, Result: ResultSkippedAdmin},
		{Input: "222222222", ID: 222222222, Result: ResultAlreadyBanned},
		{Input: "12345", ID: 12345, Result: ResultInvalidLength},
		{Input: "333333333", ID: 333333333, Result: ResultBanned},
		{Input: "4444444444", ID: 4444444444, Result: ResultBanned},
	}
	assert.Equal(t, want, report.Outcomes)
	assert.Equal(t, 2, report.Succeeded())

	banned, err := svc.IsBanned(context.Background(), 333333333)
	require.NoError(t, err)
	assert.True(t, banned)
}

func TestUnban(t *testing.T) {
	store := newMemStore(222222222, 333333333)
	svc := NewService(store, adminSet{})

	report, err := svc.Unban(context.Background(), []string{"x", "222222222", "999999999"})
	require.NoError(t, err)

	assert.Equal(t, []Outcome{
		{Input: "x", Result: ResultInvalidID},
		{Input: "222222222", ID: 222222222, Result: ResultUnbanned},
		{Input: "999999999", ID: 999999999, Result: ResultNotBanned},
	}, report.Outcomes)
	assert.Equal(t, 1, report.Succeeded())

	ids, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{333333333}, ids)
}

func TestUnbanAll(t *testing.T) {
	svc := NewService(newMemStore(222222222, 333333333), adminSet{})

	ids, err := svc.UnbanAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{222222222, 333333333}, ids)

	left, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestNewServicePanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, adminSet{}) })
	assert.Panics(t, func() { NewService(newMemStore(), nil) })
}

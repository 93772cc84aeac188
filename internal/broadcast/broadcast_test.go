package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"links-share-bot/internal/platform"
)

type fakeSender struct {
	mu      sync.Mutex
	errs    map[int64][]error
	copies  map[int64]int
	pinned  []int64
	deleted []int64
	gate    chan struct{}
}

func newFakeSender() *fakeSender {
	return &fakeSender{errs: map[int64][]error{}, copies: map[int64]int{}}
}

func (s *fakeSender) CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int, silent bool) (int, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.copies[toChatID]++
	if queue := s.errs[toChatID]; len(queue) > 0 {
		s.errs[toChatID] = queue[1:]
		if queue[0] != nil {
			return 0, queue[0]
		}
	}
	return int(toChatID) + 1000, nil
}

func (s *fakeSender) PinMessage(ctx context.Context, chatID int64, messageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = append(s.pinned, chatID)
	return nil
}

func (s *fakeSender) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, chatID)
	return nil
}

type fakeUsers struct {
	mu      sync.Mutex
	ids     []int64
	removed []int64
}

func (u *fakeUsers) ListIDs(ctx context.Context) ([]int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]int64(nil), u.ids...), nil
}

func (u *fakeUsers) Delete(ctx context.Context, id int64) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.removed = append(u.removed, id)
	return nil
}

func newBroadcaster(t *testing.T, sender *fakeSender, users *fakeUsers) (*Broadcaster, *[]time.Duration) {
	t.Helper()
	var slept []time.Duration
	b := New(sender, users, Options{
		RatePerSecond: 1e6,
		Burst:         1000,
		Sleep: func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	})
	t.Cleanup(b.Close)
	return b, &slept
}

func TestRunCountsOutcomes(t *testing.T) {
	sender := newFakeSender()
	sender.errs[2] = []error{platform.ErrUserBlocked}
	sender.errs[3] = []error{platform.ErrUserDeactivated}
	sender.errs[4] = []error{errors.New("bad request")}
	sender.errs[5] = []error{&platform.FloodWaitError{RetryAfter: 3 * time.Second}}
	sender.errs[6] = []error{&platform.FloodWaitError{RetryAfter: time.Second}, errors.New("still failing")}

	users := &fakeUsers{ids: []int64{1, 2, 3, 4, 5, 6}}
	b, slept := newBroadcaster(t, sender, users)

	report, err := b.Run(context.Background(), Message{FromChatID: 99, MessageID: 7}, Mode{}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, report.JobID)
	assert.False(t, report.Canceled)
	assert.Equal(t, Stats{Total: 6, Successful: 2, Blocked: 1, Deleted: 1, Unsuccessful: 2}, report.Stats)
	assert.Equal(t, []int64{2, 3, 4}, users.removed)
	assert.Equal(t, []time.Duration{3 * time.Second, time.Second}, *slept)
	assert.Equal(t, 2, sender.copies[5])
	assert.Equal(t, 2, sender.copies[6])
}

func TestRunPinAndDelete(t *testing.T) {
	sender := newFakeSender()
	users := &fakeUsers{ids: []int64{1, 2}}
	b, _ := newBroadcaster(t, sender, users)

	mode, err := ParseMode([]string{"pin", "delete", "1"})
	require.NoError(t, err)

	_, err = b.Run(context.Background(), Message{FromChatID: 99, MessageID: 7}, mode, nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, sender.pinned)

	require.Eventually(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return len(sender.deleted) == 2
	}, 3*time.Second, 20*time.Millisecond)
}

func TestRunProgress(t *testing.T) {
	ids := make([]int64, 100)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	b, _ := newBroadcaster(t, newFakeSender(), &fakeUsers{ids: ids})

	var calls []int
	_, err := b.Run(context.Background(), Message{}, Mode{}, func(s Stats) {
		calls = append(calls, s.Processed())
	})
	require.NoError(t, err)

	require.NotEmpty(t, calls)
	assert.Equal(t, 1, calls[0])
	assert.Equal(t, 100, calls[len(calls)-1])
	for i := 1; i < len(calls)-1; i++ {
		assert.GreaterOrEqual(t, calls[i]-calls[i-1], 5)
	}
}

func TestCancel(t *testing.T) {
	users := &fakeUsers{ids: []int64{1, 2, 3, 4, 5}}
	b, _ := newBroadcaster(t, newFakeSender(), users)

	assert.False(t, b.Cancel())

	report, err := b.Run(context.Background(), Message{}, Mode{}, func(s Stats) {
		if s.Processed() == 1 {
			assert.True(t, b.Cancel())
		}
	})
	require.NoError(t, err)
	assert.True(t, report.Canceled)
	assert.Equal(t, 1, report.Stats.Processed())
	assert.False(t, b.Running())
}

func TestSingleRunningJob(t *testing.T) {
	sender := newFakeSender()
	sender.gate = make(chan struct{})
	users := &fakeUsers{ids: []int64{1}}
	b, _ := newBroadcaster(t, sender, users)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = b.Run(context.Background(), Message{}, Mode{}, nil)
	}()

	require.Eventually(t, b.Running, time.Second, 5*time.Millisecond)

	_, err := b.Run(context.Background(), Message{}, Mode{}, nil)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(sender.gate)
	<-done
	assert.False(t, b.Running())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		pin     bool
		silent  bool
		after   time.Duration
		wantErr bool
	}{
		{args: nil, want: "NORMAL"},
		{args: []string{"normal"}, want: "NORMAL"},
		{args: []string{"pin"}, want: "PIN", pin: true},
		{args: []string{"delete", "30"}, want: "DELETE(30s)", after: 30 * time.Second},
		{args: []string{"PIN", "delete", "30", "silent"}, want: "PIN + DELETE(30s) + SILENT", pin: true, silent: true, after: 30 * time.Second},
		{args: []string{"delete"}, wantErr: true},
		{args: []string{"delete", "x"}, wantErr: true},
		{args: []string{"delete", "-5"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			m, err := ParseMode(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDuration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
			assert.Equal(t, tt.pin, m.Pin)
			assert.Equal(t, tt.silent, m.Silent)
			assert.Equal(t, tt.after, m.DeleteAfter)
		})
	}
}

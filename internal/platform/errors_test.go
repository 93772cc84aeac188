package platform

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryAfter(t *testing.T) {
	base := errors.New("Too Many Requests: retry after 7")
	err := fmt.Errorf("copy message: %w", &FloodWaitError{RetryAfter: 7 * time.Second, Err: base})

	d, ok := RetryAfter(err)
	assert.True(t, ok)
	assert.Equal(t, 7*time.Second, d)
	assert.ErrorIs(t, err, base)

	_, ok = RetryAfter(ErrUserBlocked)
	assert.False(t, ok)
}

func TestMemberStatus(t *testing.T) {
	tests := []struct {
		status MemberStatus
		joined bool
		admin  bool
	}{
		{StatusCreator, true, true},
		{StatusAdministrator, true, true},
		{StatusMember, true, false},
		{StatusRestricted, false, false},
		{StatusLeft, false, false},
		{StatusKicked, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.joined, tt.status.IsJoined())
			assert.Equal(t, tt.admin, tt.status.IsAdmin())
		})
	}
}

func TestChatPublicLink(t *testing.T) {
	assert.Equal(t, "https://t.me/news", Chat{Username: "news"}.PublicLink())
	assert.Empty(t, Chat{Title: "private"}.PublicLink())
}

package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"links-share-bot/internal/ban"
	"links-share-bot/internal/broadcast"
	"links-share-bot/internal/channel"
	"links-share-bot/internal/fsub"
	"links-share-bot/internal/platform"
)

func TestParseArgs(t *testing.T) {
	assert.Empty(t, parseArgs(""))
	assert.Equal(t, []string{"pin", "delete", "30"}, parseArgs("  pin delete   30 "))

	args := []string{"a", "b"}
	assert.Equal(t, "b", getArg(args, 1))
	assert.Equal(t, "", getArg(args, 2))
	assert.True(t, hasArg(args, 2))
	assert.False(t, hasArg(args, 3))
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{0.04, 0},
		{0.05, 1},
		{0.5, 10},
		{0.999, 19},
		{1, 20},
		{1.5, 20},
	}

	for _, tt := range tests {
		bar := progressBar(tt.percent)
		assert.Equal(t, progressBarLength, len([]rune(bar)), "percent %v", tt.percent)
		assert.Equal(t, tt.filled, strings.Count(bar, "●"), "percent %v", tt.percent)
	}
}

func TestBroadcastTexts(t *testing.T) {
	mode, err := broadcast.ParseMode([]string{"pin", "delete", "30"})
	require.NoError(t, err)

	stats := broadcast.Stats{Total: 4, Successful: 1, Blocked: 1}
	text := progressText(mode, stats)
	assert.Contains(t, text, "BROADCAST (PIN + DELETE(30s)) IN PROGRESS")
	assert.Contains(t, text, "<code>50%</code>")
	assert.Contains(t, text, "Total Users: <code>4</code>")
	assert.Contains(t, text, "/cancel")

	done := reportText(broadcast.Report{Mode: mode, Stats: broadcast.Stats{Total: 2, Successful: 2}})
	assert.Contains(t, done, "COMPLETED ✅")
	assert.Contains(t, done, strings.Repeat("●", progressBarLength))

	canceled := reportText(broadcast.Report{Mode: mode, Stats: stats, Canceled: true})
	assert.Contains(t, canceled, "CANCELED ❌")
	assert.NotContains(t, canceled, "COMPLETED")
}

func TestChannelsText(t *testing.T) {
	assert.Contains(t, channelsText("bot", nil), "No channels yet")

	text := channelsText("links_bot", []*channel.Channel{
		{ChannelID: -1001, Title: "News <daily>"},
		{ChannelID: -1002},
	})
	assert.Contains(t, text, "1. <a href=\"https://t.me/links_bot?start=")
	assert.Contains(t, text, "News &lt;daily&gt;")
	assert.Contains(t, text, "Channel -1002")

	many := make([]*channel.Channel, 500)
	for i := range many {
		many[i] = &channel.Channel{ChannelID: int64(-1000000 - i), Title: "A fairly long channel title"}
	}
	long := channelsText("links_bot", many)
	assert.Less(t, len(long), 4096)
	assert.Contains(t, long, "more</i>")
}

func TestFSubListText(t *testing.T) {
	assert.Contains(t, fsubListText(nil), "No Force Subscription channels configured")

	text := fsubListText([]fsub.Listing{
		{ChannelID: -1001, Chat: platform.Chat{ID: -1001, Title: "Public", Username: "public"}},
		{ChannelID: -1002, Chat: platform.Chat{ID: -1002, Title: "Secret"}},
		{ChannelID: -1003, Err: errors.New("chat not found")},
	})
	assert.Contains(t, text, "<b>1. Public</b>")
	assert.Contains(t, text, "https://t.me/public")
	assert.Contains(t, text, "<b>2. Secret</b>")
	assert.Contains(t, text, "Private Channel")
	assert.Contains(t, text, "<code>-1003</code> (Error: chat not found)")
}

func TestBanReportText(t *testing.T) {
	text := banReportText(ban.Report{Outcomes: []ban.Outcome{
		{Input: "111111111", ID: 111111111, Result: ban.ResultBanned},
		{Input: "abc", Result: ban.ResultInvalidID},
		{Input: "42", ID: 42, Result: ban.ResultInvalidLength},
		{Input: "1", ID: 1, Result: ban.ResultSkippedAdmin},
		{Input: "222222222", ID: 222222222, Result: ban.ResultAlreadyBanned},
	}})

	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "✅ Banned: <code>111111111</code>", lines[0])
	assert.Equal(t, "⚠️ Invalid ID: <code>abc</code>", lines[1])
	assert.Contains(t, lines[2], "Invalid Telegram ID length")
	assert.Contains(t, lines[3], "Skipped admin/owner")
	assert.Contains(t, lines[4], "Already banned")
}

func TestChatInfoText(t *testing.T) {
	desc := strings.Repeat("x", 150)
	text := chatInfoText(platform.Chat{ID: -1001, Type: "channel", Title: "News", Description: desc}, 7)

	assert.Contains(t, text, "<code>-1001</code>")
	assert.Contains(t, text, "Type:</b> CHANNEL")
	assert.Contains(t, text, "Private Channel")
	assert.Contains(t, text, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, text, strings.Repeat("x", 101))
	assert.Contains(t, text, "<code>7</code>")

	public := chatInfoText(platform.Chat{ID: -1002, Type: "supergroup", Title: "Chat", Username: "chat"}, 0)
	assert.Contains(t, public, "@chat")
	assert.Contains(t, public, "https://t.me/chat")
	assert.NotContains(t, public, "Message ID")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "频道...", truncate("频道简介", 2))
}

func TestStatusText(t *testing.T) {
	text := statusText(12, 90*time.Minute+5*time.Second, 1500*time.Microsecond)
	assert.Equal(t, "<b>Users: 12\n\nUptime: 1h:30m:5s\n\nPing: 1.50 ms</b>", text)
}

func TestChannelAddedText(t *testing.T) {
	text := channelAddedText("News", -1001, "https://t.me/b?start=x", "https://t.me/b?start=req_x")
	assert.Contains(t, text, "Channel Added Successfully")
	assert.Contains(t, text, "<code>https://t.me/b?start=x</code>")
	assert.Contains(t, text, "<code>https://t.me/b?start=req_x</code>")
}

func TestStopWaitsForDelayedDeletes(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	b := &Bot{ctx: ctx, stop: stop}

	b.deleteAfter(1, 2, time.Hour)
	b.deleteAfter(1, 3, time.Hour)

	done := make(chan struct{})
	go func() {
		b.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("delayed deletes not tracked by pending")
	case <-time.After(50 * time.Millisecond):
	}

	b.stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("delayed deletes still running after stop")
	}
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/broadcast"
	"links-share-bot/internal/logger"
)

const (
	progressBarLength = 20
	usageTTL          = 8 * time.Second
)

const broadcastUsage = `Reply to a message to broadcast.

Usage examples:
<code>/broadcast normal</code>
<code>/broadcast pin</code>
<code>/broadcast delete 30</code>
<code>/broadcast pin delete 30</code>
<code>/broadcast silent</code>`

// handleBroadcast /broadcast [pin] [delete N] [silent]，需回复要群发的消息
func (b *Bot) handleBroadcast(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	if msg.ReplyToMessage == nil {
		sent, err := b.send(msg.Chat.ID, broadcastUsage, nil)
		if err != nil {
			return "", err
		}
		b.deleteAfter(msg.Chat.ID, sent.MessageID, usageTTL)
		return "", nil
	}

	mode, err := broadcast.ParseMode(args)
	if err != nil {
		return "<b>Provide valid duration for delete mode.</b>\nUsage: <code>/broadcast delete 30</code>", nil
	}

	if b.broadcaster.Running() {
		return "<b>⚠️ A broadcast is already running. Use /cancel to stop it.</b>", nil
	}

	status, err := b.send(msg.Chat.ID, fmt.Sprintf("<i>Broadcasting in <b>%s</b> mode...</i>", escape(mode.String())), nil)
	if err != nil {
		return "", err
	}

	progress := func(stats broadcast.Stats) {
		if err := b.edit(msg.Chat.ID, status.MessageID, progressText(mode, stats), nil); err != nil {
			logger.DebugKV("failed to update broadcast progress", "error", err)
		}
	}

	report, err := b.broadcaster.Run(ctx, broadcast.Message{
		FromChatID: msg.Chat.ID,
		MessageID:  msg.ReplyToMessage.MessageID,
	}, mode, progress)
	if err != nil {
		if errors.Is(err, broadcast.ErrAlreadyRunning) {
			return "<b>⚠️ A broadcast is already running. Use /cancel to stop it.</b>", nil
		}
		return "", err
	}

	logger.InfoKV("broadcast finished",
		"job_id", report.JobID,
		"mode", report.Mode.String(),
		"total", report.Stats.Total,
		"successful", report.Stats.Successful,
		"canceled", report.Canceled,
		"elapsed", report.Elapsed,
	)

	if err := b.edit(msg.Chat.ID, status.MessageID, reportText(report), nil); err != nil {
		logger.Errorf("failed to send broadcast report: %v", err)
	}
	return "", nil
}

// handleCancelBroadcast /cancel
func (b *Bot) handleCancelBroadcast(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	if !b.broadcaster.Cancel() {
		return "<b>ℹ️ No broadcast is running.</b>", nil
	}
	return "<b>✅ Broadcast will be canceled.</b>", nil
}

// progressBar 20 格进度条
func progressBar(percent float64) string {
	n := int(math.Floor(percent * progressBarLength))
	n = max(0, min(n, progressBarLength))
	return strings.Repeat("●", n) + strings.Repeat("○", progressBarLength-n)
}

func statsText(stats broadcast.Stats) string {
	return fmt.Sprintf(`<b>›› Total Users: <code>%d</code>
›› Successful: <code>%d</code>
›› Blocked: <code>%d</code>
›› Deleted: <code>%d</code>
›› Unsuccessful: <code>%d</code></b>`, stats.Total, stats.Successful, stats.Blocked, stats.Deleted, stats.Unsuccessful)
}

func progressText(mode broadcast.Mode, stats broadcast.Stats) string {
	percent := stats.Percent()
	return fmt.Sprintf(`<b>›› BROADCAST (%s) IN PROGRESS...</b>

<blockquote>⏳: [%s] <code>%.0f%%</code></blockquote>

%s

<i>➪ To stop broadcasting click: <b>/cancel</b></i>`, escape(mode.String()), progressBar(percent), percent*100, statsText(stats))
}

func reportText(report broadcast.Report) string {
	if report.Canceled {
		return fmt.Sprintf("<b>›› BROADCAST (%s) CANCELED ❌</b>\n\n%s", escape(report.Mode.String()), statsText(report.Stats))
	}

	percent := report.Stats.Percent()
	return fmt.Sprintf(`<b>›› BROADCAST (%s) COMPLETED ✅</b>

<blockquote>Done: [%s] %.0f%%</blockquote>

%s`, escape(report.Mode.String()), progressBar(percent), percent*100, statsText(report.Stats))
}

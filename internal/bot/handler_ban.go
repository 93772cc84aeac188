package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/ban"
	"links-share-bot/internal/logger"
)

// handleBan /ban <user_id...>
func (b *Bot) handleBan(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	if !hasArg(args, 1) {
		b.replyClosable(msg.Chat.ID, "<b><blockquote expandable>❗ You must provide user IDs to ban.\n\n📌 Usage:\n<code>/ban [user_id]</code> ban one or more users by ID\n<code>/ban 123456789 987654321</code> ban multiple users</blockquote></b>")
		return "", nil
	}

	report, err := b.bans.Ban(ctx, args)
	if err != nil {
		return "", err
	}

	header := "❌ No users were banned."
	if report.Succeeded() > 0 {
		header = "✅ Banned Users Updated:"
	}
	b.replyClosable(msg.Chat.ID, fmt.Sprintf("<blockquote expandable><b>%s</b>\n\n%s</blockquote>", header, banReportText(report)))
	return "", nil
}

// handleUnban /unban <user_id...> | all
func (b *Bot) handleUnban(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	if !hasArg(args, 1) {
		b.replyClosable(msg.Chat.ID, "<b><blockquote expandable>❗ Please provide user IDs to unban.\n\n📌 Usage:\n<code>/unban [user_id]</code> unban specific user(s)\n<code>/unban all</code> remove all banned users</blockquote></b>")
		return "", nil
	}

	if strings.EqualFold(getArg(args, 0), "all") {
		ids, err := b.bans.UnbanAll(ctx)
		if err != nil {
			return "", err
		}
		if len(ids) == 0 {
			b.replyClosable(msg.Chat.ID, "<b><blockquote expandable>✅ No users in the ban list.</blockquote></b>")
			return "", nil
		}

		var sb strings.Builder
		for _, id := range ids {
			fmt.Fprintf(&sb, "✅ Unbanned: <code>%d</code>\n", id)
		}
		b.replyClosable(msg.Chat.ID, fmt.Sprintf("<blockquote expandable><b>🚫 Cleared Ban List (%d users):</b>\n\n%s</blockquote>", len(ids), sb.String()))
		return "", nil
	}

	report, err := b.bans.Unban(ctx, args)
	if err != nil {
		return "", err
	}

	header := "❌ No users were unbanned."
	if report.Succeeded() > 0 {
		header = "🚫 Unban Report:"
	}
	b.replyClosable(msg.Chat.ID, fmt.Sprintf("<blockquote expandable><b>%s</b>\n\n%s</blockquote>", header, banReportText(report)))
	return "", nil
}

// handleBanList /banlist
func (b *Bot) handleBanList(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	ids, err := b.bans.List(ctx)
	if err != nil {
		return "", err
	}

	if len(ids) == 0 {
		b.replyClosable(msg.Chat.ID, "<b><blockquote expandable>✅ No users in the ban list.</blockquote></b>")
		return "", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>🚫 Banned Users (%d):</b>\n\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(&sb, "• <a href=\"tg://user?id=%d\">%d</a>\n", id, id)
	}
	fmt.Fprintf(&sb, "\n<b>Total Banned:</b> <code>%d</code>", len(ids))

	b.replyClosable(msg.Chat.ID, sb.String())
	return "", nil
}

// handleCheckBan /checkban <user_id>
func (b *Bot) handleCheckBan(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	if !hasArg(args, 1) {
		return "<b><blockquote expandable>❗ Please provide a user ID.\n\n📌 Usage:\n<code>/checkban [user_id]</code></blockquote></b>", nil
	}

	id, err := strconv.ParseInt(getArg(args, 0), 10, 64)
	if err != nil {
		return "<b><blockquote expandable>⚠️ Invalid user ID.</blockquote></b>", nil
	}

	banned, err := b.bans.IsBanned(ctx, id)
	if err != nil {
		return "", err
	}

	status := "✅ User is NOT BANNED"
	if banned {
		status = "🚫 User is BANNED"
	}
	return fmt.Sprintf("<blockquote expandable><b>%s</b>\n\n<b>ID:</b> <a href=\"tg://user?id=%d\">%d</a></blockquote>", status, id, id), nil
}

// banReportText 每个参数一行
func banReportText(report ban.Report) string {
	var sb strings.Builder
	for _, o := range report.Outcomes {
		switch o.Result {
		case ban.ResultBanned:
			fmt.Fprintf(&sb, "✅ Banned: <code>%d</code>\n", o.ID)
		case ban.ResultUnbanned:
			fmt.Fprintf(&sb, "✅ Unbanned: <code>%d</code>\n", o.ID)
		case ban.ResultInvalidID:
			fmt.Fprintf(&sb, "⚠️ Invalid ID: <code>%s</code>\n", escape(o.Input))
		case ban.ResultInvalidLength:
			fmt.Fprintf(&sb, "⚠️ Invalid Telegram ID length: <code>%d</code>\n", o.ID)
		case ban.ResultSkippedAdmin:
			fmt.Fprintf(&sb, "⛔ Skipped admin/owner ID: <code>%d</code>\n", o.ID)
		case ban.ResultAlreadyBanned:
			fmt.Fprintf(&sb, "⚠️ Already banned: <code>%d</code>\n", o.ID)
		case ban.ResultNotBanned:
			fmt.Fprintf(&sb, "⚠️ Not in ban list: <code>%d</code>\n", o.ID)
		}
	}
	return sb.String()
}

// replyClosable 回复带关闭按钮的消息
func (b *Bot) replyClosable(chatID int64, text string) {
	keyboard := CloseKeyboard()
	if _, err := b.send(chatID, text, &keyboard); err != nil {
		logger.Errorf("failed to send message: %v", err)
	}
}

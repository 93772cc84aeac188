package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/logger"
	"links-share-bot/pkg/timeutil"
)

// handleStatus /status：用户数、运行时长、Bot API 往返耗时
func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	ping, err := b.client.Ping(ctx)
	if err != nil {
		logger.WarnKV("ping failed", "error", err)
	}

	users, err := b.users.Count(ctx)
	if err != nil {
		return "", err
	}

	b.replyClosable(msg.Chat.ID, statusText(users, time.Since(b.startedAt), ping))
	return "", nil
}

func statusText(users int64, uptime, ping time.Duration) string {
	return fmt.Sprintf("<b>Users: %d\n\nUptime: %s\n\nPing: %s</b>",
		users, timeutil.ReadableDuration(uptime), timeutil.Milliseconds(ping))
}

// handleHelp /help 管理员命令说明
func (b *Bot) handleHelp(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	return `📚 <b>Admin Commands</b>

<b>Channels</b>
• /id reply to a forwarded post to see channel info and add/remove it
• /setlink &lt;channel_id&gt; &lt;url|off&gt; send users to an external link instead

<b>Force Subscription</b>
• /addfsub &lt;channel_id&gt;
• /delfsub &lt;channel_id&gt;
• /fsublist

<b>Users</b>
• /ban &lt;user_id...&gt;
• /unban &lt;user_id...|all&gt;
• /banlist
• /checkban &lt;user_id&gt;

<b>Broadcast</b>
• /broadcast [pin] [delete N] [silent] reply to the message to send
• /cancel

<b>Misc</b>
• /status`, nil
}

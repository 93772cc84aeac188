// Package bot 菜单回调处理
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/channel"
	"links-share-bot/internal/logger"
	"links-share-bot/pkg/deeplink"
)

// 频道列表超过该长度时截断，Telegram 单条消息上限 4096
const maxChannelsText = 3500

// handleMenuCallback 处理菜单相关回调
func (b *Bot) handleMenuCallback(ctx context.Context, query *tgbotapi.CallbackQuery, parts []string) CallbackResponse {
	switch getCallbackParam(parts, 1) {
	case "close":
		return CallbackResponse{Delete: true}
	case "about":
		keyboard := BackCloseKeyboard()
		return CallbackResponse{EditText: b.aboutText(), EditMarkup: &keyboard}
	case "channels":
		return b.showChannels(ctx)
	case "start", "home":
		keyboard := StartKeyboard()
		return CallbackResponse{EditText: b.startText(query.From), EditMarkup: &keyboard}
	default:
		return CallbackResponse{Answer: "Unknown menu", ShowAlert: true}
	}
}

// startText 无参数 /start 的欢迎消息
func (b *Bot) startText(u *tgbotapi.User) string {
	name := "there"
	if u != nil && u.FirstName != "" {
		name = u.FirstName
	}
	return fmt.Sprintf(`<b>👋 Hello %s!</b>

<blockquote expandable>I share channel links safely. Open a post link to receive a fresh invite link that expires shortly after use.</blockquote>`, escape(name))
}

func (b *Bot) aboutText() string {
	return fmt.Sprintf(`<b>ℹ️ About</b>

<blockquote expandable>›› Bot: @%s
›› Name: %s
›› Version: <code>%s</code></blockquote>`, b.client.Username(), escape(b.cfg.App.Name), escape(b.cfg.App.Version))
}

// showChannels 列出已保存的频道及其深链
func (b *Bot) showChannels(ctx context.Context) CallbackResponse {
	channels, err := b.channels.List(ctx)
	if err != nil {
		logger.ErrorKV("failed to list channels", "error", err)
		return CallbackResponse{Answer: "Failed to load channels", ShowAlert: true}
	}

	keyboard := BackCloseKeyboard()
	return CallbackResponse{
		EditText:   channelsText(b.client.Username(), channels),
		EditMarkup: &keyboard,
	}
}

func channelsText(botUsername string, channels []*channel.Channel) string {
	if len(channels) == 0 {
		return "<b>📺 Channels</b>\n\n<blockquote>No channels yet.</blockquote>"
	}

	var sb strings.Builder
	sb.WriteString("<b>📺 Channels</b>\n\n")
	for i, ch := range channels {
		title := ch.Title
		if title == "" {
			title = fmt.Sprintf("Channel %d", ch.ChannelID)
		}
		normal, _ := deeplink.Links(botUsername, ch.ChannelID)
		line := fmt.Sprintf("%d. <a href=\"%s\">%s</a>\n", i+1, normal, escape(title))

		if sb.Len()+len(line) > maxChannelsText {
			fmt.Fprintf(&sb, "\n<i>… and %d more</i>", len(channels)-i)
			break
		}
		sb.WriteString(line)
	}
	return sb.String()
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/channel"
	"links-share-bot/internal/logger"
	"links-share-bot/internal/platform"
	"links-share-bot/pkg/deeplink"
	"links-share-bot/pkg/validator"
)

const maxDescription = 100

// handleChannelInfo /id，回复一条转发消息查看来源信息
func (b *Bot) handleChannelInfo(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	replied := msg.ReplyToMessage
	if replied == nil {
		return "<b><blockquote expandable>❌ Please reply to a forwarded message to get channel info.\n\n📌 Usage: Reply to a forwarded message with <code>/id</code></blockquote></b>", nil
	}

	switch {
	case replied.ForwardFromChat != nil:
		fwd := replied.ForwardFromChat
		chat := platform.Chat{
			ID:       fwd.ID,
			Type:     fwd.Type,
			Title:    fwd.Title,
			Username: fwd.UserName,
		}
		// 转发来源不带简介，能取到完整信息时使用缓存的结果
		if full, err := b.gate.Chats.Get(ctx, fwd.ID); err == nil {
			chat = full
		}

		text := chatInfoText(chat, replied.MessageID)
		keyboard := CloseKeyboard()
		if b.isAdmin(msg.From.ID) {
			keyboard = ChannelActionsKeyboard(chat.ID)
		}
		if _, err := b.send(msg.Chat.ID, text, &keyboard); err != nil {
			return "", err
		}
		return "", nil

	case replied.ForwardFrom != nil:
		keyboard := CloseKeyboard()
		if _, err := b.send(msg.Chat.ID, userInfoText(replied.ForwardFrom, replied.MessageID), &keyboard); err != nil {
			return "", err
		}
		return "", nil

	default:
		return "<b><blockquote expandable>⚠️ This message is not forwarded from a channel or chat.\n\nPlease reply to a message that was forwarded from a channel/group.</blockquote></b>", nil
	}
}

func chatInfoText(chat platform.Chat, messageID int) string {
	var sb strings.Builder
	sb.WriteString("<b>📊 Message Information:</b>\n\n")
	fmt.Fprintf(&sb, "<b>📺 Name:</b> %s\n", escape(chat.Title))
	fmt.Fprintf(&sb, "<b>🆔 Channel ID:</b> <code>%d</code>\n", chat.ID)
	fmt.Fprintf(&sb, "<b>🔗 Type:</b> %s\n", strings.ToUpper(chat.Type))

	if chat.Username != "" {
		fmt.Fprintf(&sb, "<b>👤 Username:</b> @%s\n", chat.Username)
		fmt.Fprintf(&sb, "<b>🔗 Link:</b> %s\n", chat.PublicLink())
	} else {
		sb.WriteString("<b>🔒 Privacy:</b> Private Channel\n")
	}

	if chat.Description != "" {
		fmt.Fprintf(&sb, "<b>📝 Description:</b> %s\n", escape(truncate(chat.Description, maxDescription)))
	}

	if messageID != 0 {
		fmt.Fprintf(&sb, "\n<b>📨 Message ID:</b> <code>%d</code>\n", messageID)
	}
	return sb.String()
}

func userInfoText(u *tgbotapi.User, messageID int) string {
	var sb strings.Builder
	sb.WriteString("<b>📊 Message Information:</b>\n\n")

	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	fmt.Fprintf(&sb, "<b>👤 User Name:</b> %s\n", escape(name))
	fmt.Fprintf(&sb, "<b>🆔 User ID:</b> <code>%d</code>\n", u.ID)
	if u.UserName != "" {
		fmt.Fprintf(&sb, "<b>👤 Username:</b> @%s\n", u.UserName)
	}
	if u.IsBot {
		sb.WriteString("<b>🤖 Bot:</b> Yes\n")
	}

	fmt.Fprintf(&sb, "\n<b>📨 Message ID:</b> <code>%d</code>\n", messageID)
	return sb.String()
}

// truncate 按字符截断，超出时追加省略号
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// handleSetLink /setlink <channel_id> <url|off>
func (b *Bot) handleSetLink(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	if !hasArg(args, 2) {
		return "<b><blockquote expandable>Usage: <code>/setlink &lt;channel_id&gt; &lt;url|off&gt;</code>\n\nUsers opening the channel's post link are sent to this URL instead of an invite link.</blockquote></b>", nil
	}

	channelID, err := validator.ParseChatID(getArg(args, 0))
	if err != nil {
		return "<b><blockquote expandable>❌ Invalid channel ID.</blockquote></b>", nil
	}

	link := getArg(args, 1)
	if strings.EqualFold(link, "off") {
		link = ""
	} else if err := validator.ValidateURL(link); err != nil {
		return fmt.Sprintf("<b><blockquote expandable>❌ %s</blockquote></b>", escape(err.Error())), nil
	}

	if err := b.channels.SetOriginalLink(ctx, channelID, link); err != nil {
		if errors.Is(err, channel.ErrNotFound) {
			return fmt.Sprintf("<b><blockquote expandable>❌ Channel <code>%d</code> is not saved. Add it with /id first.</blockquote></b>", channelID), nil
		}
		return "", err
	}

	if link == "" {
		return fmt.Sprintf("<b><blockquote expandable>✅ Original link cleared for <code>%d</code>.</blockquote></b>", channelID), nil
	}
	return fmt.Sprintf("<b><blockquote expandable>✅ Original link set for <code>%d</code>:\n%s</blockquote></b>", channelID, escape(link)), nil
}

// handleChannelCallback channel:add:<id> / channel:del:<id>
func (b *Bot) handleChannelCallback(ctx context.Context, query *tgbotapi.CallbackQuery, parts []string) CallbackResponse {
	if !b.isAdmin(query.From.ID) {
		return CallbackResponse{Answer: "⛔ Only admins can use this!", ShowAlert: true}
	}

	channelID, ok := strToInt64(getCallbackParam(parts, 2))
	if !ok {
		return CallbackResponse{Answer: "❌ Invalid channel ID", ShowAlert: true}
	}

	switch getCallbackParam(parts, 1) {
	case "add":
		return b.quickAddChannel(ctx, channelID)
	case "del":
		return b.quickDeleteChannel(ctx, channelID)
	default:
		return CallbackResponse{Answer: "Unknown action", ShowAlert: true}
	}
}

// quickAddChannel 保存频道并返回普通/申请两种深链，要求 Bot 是频道管理员
func (b *Bot) quickAddChannel(ctx context.Context, channelID int64) CallbackResponse {
	chat, err := b.gate.Chats.Get(ctx, channelID)
	if err != nil {
		if errors.Is(err, platform.ErrChatNotFound) {
			return CallbackResponse{
				Answer:     "❌ Bot not in channel",
				NewMessage: "<b><blockquote expandable>❌ I am not a member of this channel. Please add me and try again.</blockquote></b>",
			}
		}
		return errorResponse(err)
	}

	status, err := b.client.GetMemberStatus(ctx, channelID, b.client.BotID())
	if err != nil {
		return errorResponse(err)
	}
	if !status.IsAdmin() {
		return CallbackResponse{
			Answer:     "❌ Missing admin rights",
			NewMessage: fmt.Sprintf("<b><blockquote expandable>❌ I am in %s, but I lack admin rights to create invite links.</blockquote></b>", escape(chat.Title)),
		}
	}

	if _, err := b.channels.Add(ctx, channelID, chat.Title); err != nil {
		return errorResponse(err)
	}

	logger.InfoKV("channel saved", "channel_id", channelID, "title", chat.Title)

	normal, request := deeplink.Links(b.client.Username(), channelID)
	return CallbackResponse{
		Answer:     "✅ Channel added!",
		NewMessage: channelAddedText(chat.Title, channelID, normal, request),
	}
}

func channelAddedText(title string, channelID int64, normal, request string) string {
	return fmt.Sprintf("<b><blockquote expandable>✅ Channel Added Successfully!\n\n📺 Name: %s\n🆔 ID: <code>%d</code></blockquote></b>\n\n"+
		"<b>🔗 Normal Link:</b>\n<code>%s</code>\n\n<b>🔗 Request Link:</b>\n<code>%s</code>",
		escape(title), channelID, normal, request)
}

func (b *Bot) quickDeleteChannel(ctx context.Context, channelID int64) CallbackResponse {
	name := fmt.Sprintf("Channel %d", channelID)
	if chat, err := b.gate.Chats.Get(ctx, channelID); err == nil {
		name = chat.Title
	}

	if err := b.channels.Remove(ctx, channelID); err != nil {
		if errors.Is(err, channel.ErrNotFound) {
			return CallbackResponse{Answer: "⚠️ Channel is not saved", ShowAlert: true}
		}
		return errorResponse(err)
	}

	logger.InfoKV("channel removed", "channel_id", channelID)

	return CallbackResponse{
		Answer:     "✅ Channel removed!",
		NewMessage: fmt.Sprintf("<b><blockquote expandable>✅ Channel Removed Successfully!\n\n📺 Name: %s\n🆔 ID: <code>%d</code></blockquote></b>", escape(name), channelID),
	}
}

func errorResponse(err error) CallbackResponse {
	logger.ErrorKV("callback failed", "error", err)
	return CallbackResponse{
		Answer:     "❌ Error occurred",
		ShowAlert:  true,
		NewMessage: fmt.Sprintf("<b><blockquote expandable>❌ Error: <code>%s</code></blockquote></b>", escape(err.Error())),
	}
}

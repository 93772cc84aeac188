package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/channel"
	"links-share-bot/internal/invitelink"
	"links-share-bot/internal/logger"
	"links-share-bot/pkg/deeplink"
)

const (
	textInvalidLink  = "<b><blockquote expandable>Invalid or expired invite link.</blockquote></b>"
	textHereIsLink   = "<b><blockquote expandable>Here is your link! Click below to proceed</blockquote></b>"
	textExpiredNote  = "<u><b>Note: If the link is expired, please click the post link again to get a new one.</b></u>"
	textFSubCheckErr = "<b><i>! Error, please contact the bot admin.</i></b>"
)

// handleStart 处理 /start [token]
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	if _, err := b.users.GetOrCreate(ctx, msg.From); err != nil {
		logger.ErrorKV("failed to register user", "user_id", msg.From.ID, "error", err)
	}

	payload := getArg(args, 0)

	if b.sendNotJoined(ctx, msg, payload) {
		return "", nil
	}

	if payload == "" {
		keyboard := StartKeyboard()
		if _, err := b.send(msg.Chat.ID, b.startText(msg.From), &keyboard); err != nil {
			logger.Errorf("failed to send start message: %v", err)
		}
		return "", nil
	}

	text, keyboard, err := issueLink(ctx, b.channels, b.gate, payload)
	if err != nil {
		return "", err
	}
	if keyboard == nil {
		return text, nil
	}
	if _, err := b.send(msg.Chat.ID, text, keyboard); err != nil {
		return "", err
	}

	note, err := b.send(msg.Chat.ID, textExpiredNote, nil)
	if err != nil {
		logger.Errorf("failed to send note: %v", err)
		return "", nil
	}
	b.deleteAfter(msg.Chat.ID, note.MessageID, b.cfg.Invite.NoteTTL)

	return "", nil
}

// sendNotJoined 用户缺少订阅时展示加入按钮，Try Again 带回原 /start 参数
// 返回 false 表示已全部加入，可以继续处理。
func (b *Bot) sendNotJoined(ctx context.Context, msg *tgbotapi.Message, payload string) bool {
	targets, err := b.gate.FSub.Missing(ctx, msg.From.ID)
	if err != nil {
		logger.ErrorKV("failed to build join buttons", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, textFSubCheckErr)
		return true
	}
	if len(targets) == 0 {
		return false
	}

	keyboard := JoinKeyboard(targets, deeplink.StartURL(b.client.Username(), payload))
	if _, err := b.send(msg.Chat.ID, b.cfg.FSub.Message, &keyboard); err != nil {
		logger.Errorf("failed to send force-subscribe message: %v", err)
	}
	return true
}

type tokenResolver interface {
	Resolve(ctx context.Context, payload string) (channelID int64, isRequest bool, err error)
}

type inviteIssuer interface {
	EnsureInvite(ctx context.Context, channelID int64, isRequest bool) (invitelink.Result, error)
}

// issueLink 解析 deep link 并发放邀请链接
// keyboard 为 nil 时 text 是提示文本；err 只在存储故障时返回。
func issueLink(ctx context.Context, resolver tokenResolver, issuer inviteIssuer, payload string) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	channelID, isRequest, err := resolver.Resolve(ctx, payload)
	if err != nil {
		if errors.Is(err, channel.ErrInvalidToken) {
			return textInvalidLink, nil, nil
		}
		return "", nil, err
	}

	res, err := issuer.EnsureInvite(ctx, channelID, isRequest)
	if err != nil {
		logger.ErrorKV("failed to issue invite link", "channel_id", channelID, "error", err)
		return textInvalidLink, nil, nil
	}

	keyboard := InviteKeyboard(res.Link, res.IsRequest, res.Passthrough)
	return textHereIsLink, &keyboard, nil
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/fsub"
	"links-share-bot/pkg/validator"
)

// handleAddFSub /addfsub <channel_id>
func (b *Bot) handleAddFSub(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	if len(args) != 1 {
		return "<b><blockquote expandable>Usage: <code>/addfsub &lt;channel_id&gt;</code>\nExample: <code>/addfsub -1001234567890</code></blockquote></b>", nil
	}

	channelID, err := validator.ParseChatID(args[0])
	if err != nil {
		return "<b><blockquote expandable>❌ Invalid channel ID. Must be a negative number.</blockquote></b>", nil
	}

	chat, err := b.gate.FSub.Add(ctx, channelID, b.client.BotID())
	switch {
	case err == nil:
		return fmt.Sprintf("<b><blockquote expandable>✅ Force Subscription Added\n\nChannel: %s\nID: <code>%d</code>\n\nUsers must now join this channel to use the bot.</blockquote></b>",
			escape(chat.Title), channelID), nil
	case errors.Is(err, fsub.ErrAlreadyExists):
		return fmt.Sprintf("<b><blockquote expandable>⚠️ Channel %s is already in FSub list.</blockquote></b>", escape(chat.Title)), nil
	case errors.Is(err, fsub.ErrBotNotAdmin):
		return fmt.Sprintf("<b><blockquote expandable>❌ I must be an admin in %s to add it as FSub channel.</blockquote></b>", escape(chat.Title)), nil
	default:
		return fmt.Sprintf("<b><blockquote expandable>❌ Error: <code>%s</code>\n\nMake sure:\n• The channel ID is correct\n• I'm a member/admin of the channel</blockquote></b>",
			escape(err.Error())), nil
	}
}

// handleDelFSub /delfsub <channel_id>
func (b *Bot) handleDelFSub(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	if len(args) != 1 {
		return "<b><blockquote expandable>Usage: <code>/delfsub &lt;channel_id&gt;</code></blockquote></b>", nil
	}

	channelID, err := validator.ParseChatID(args[0])
	if err != nil {
		return "<b><blockquote expandable>❌ Invalid channel ID.</blockquote></b>", nil
	}

	if err := b.gate.FSub.Remove(ctx, channelID); err != nil {
		if errors.Is(err, fsub.ErrNotFound) {
			return fmt.Sprintf("<b><blockquote expandable>❌ Channel <code>%d</code> not found in FSub list.</blockquote></b>", channelID), nil
		}
		return "", err
	}

	return fmt.Sprintf("<b><blockquote expandable>✅ Removed channel <code>%d</code> from Force Subscription list.</blockquote></b>", channelID), nil
}

// handleListFSub /fsublist
func (b *Bot) handleListFSub(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error) {
	listings, err := b.gate.FSub.Describe(ctx)
	if err != nil {
		return "", err
	}
	return fsubListText(listings), nil
}

func fsubListText(listings []fsub.Listing) string {
	if len(listings) == 0 {
		return "<b><blockquote expandable>📋 No Force Subscription channels configured.\n\nUse <code>/addfsub &lt;channel_id&gt;</code> to add channels.</blockquote></b>"
	}

	var sb strings.Builder
	sb.WriteString("<b>📋 Force Subscription Channels:</b>\n\n")
	for i, l := range listings {
		if l.Err != nil {
			fmt.Fprintf(&sb, "<b>%d.</b> <code>%d</code> (Error: %s)\n\n", i+1, l.ChannelID, escape(l.Err.Error()))
			continue
		}

		link := l.Chat.PublicLink()
		if link == "" {
			link = "Private Channel"
		}
		fmt.Fprintf(&sb, "<b>%d. %s</b>\n", i+1, escape(l.Chat.Title))
		fmt.Fprintf(&sb, "   <b>➥ ID:</b> <code>%d</code>\n", l.ChannelID)
		fmt.Fprintf(&sb, "   <b>➥ Link:</b> %s\n\n", link)
	}
	return sb.String()
}

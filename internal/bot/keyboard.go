// Package bot 按钮菜单定义
package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/fsub"
)

// Callback Data 格式常量
const (
	// 菜单
	CallbackClose    = "menu:close"
	CallbackAbout    = "menu:about"
	CallbackChannels = "menu:channels"
	CallbackStart    = "menu:start"
	CallbackHome     = "menu:home"

	// 频道快捷操作
	CallbackChannelAdd = "channel:add" // channel:add:channelID
	CallbackChannelDel = "channel:del" // channel:del:channelID
)

// StartKeyboard 欢迎消息键盘
func StartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("• About", CallbackAbout),
			tgbotapi.NewInlineKeyboardButtonData("• Channels", CallbackChannels),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("• Close •", CallbackClose),
		),
	)
}

// BackCloseKeyboard 子页面的返回/关闭键盘
func BackCloseKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("• Back", CallbackStart),
			tgbotapi.NewInlineKeyboardButtonData("Close •", CallbackClose),
		),
	)
}

// CloseKeyboard 只有关闭按钮
func CloseKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("• Close •", CallbackClose),
		),
	)
}

// InviteKeyboard 邀请链接按钮
func InviteKeyboard(link string, isRequest, passthrough bool) tgbotapi.InlineKeyboardMarkup {
	text := "• Join Channel •"
	switch {
	case passthrough:
		text = "• Proceed to Link •"
	case isRequest:
		text = "• Request to Join •"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(text, link),
		),
	)
}

// JoinKeyboard 未加入频道的按钮，最后一行重新打开 /start
func JoinKeyboard(targets []fsub.JoinTarget, retryURL string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(targets)+1)
	for _, t := range targets {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📢 "+t.Title, t.URL),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL("♻️ Try Again", retryURL),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ChannelActionsKeyboard /id 的频道快捷操作
func ChannelActionsKeyboard(channelID int64) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatInt(channelID, 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add Channel", fmt.Sprintf("%s:%s", CallbackChannelAdd, id)),
			tgbotapi.NewInlineKeyboardButtonData("➖ Remove Channel", fmt.Sprintf("%s:%s", CallbackChannelDel, id)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Close", CallbackClose),
		),
	)
}

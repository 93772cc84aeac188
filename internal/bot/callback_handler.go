// Package bot 按钮回调处理器
package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/logger"
)

// handleCallbackQuery 处理按钮回调
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From == nil || query.Message == nil {
		b.answerCallback(query.ID, "", false)
		return
	}

	if !b.isAdmin(query.From.ID) {
		banned, err := b.bans.IsBanned(ctx, query.From.ID)
		if err != nil {
			logger.ErrorKV("failed to check ban list", "user_id", query.From.ID, "error", err)
		}
		if banned {
			b.answerCallback(query.ID, "", false)
			return
		}
	}

	// 解析 callback data
	parts := strings.Split(query.Data, ":")
	action := parts[0]

	logger.InfoKV("user clicked button", "user", displayName(query.From), "data", query.Data)

	// 路由到对应的处理函数
	var response CallbackResponse
	switch action {
	case "menu":
		response = b.handleMenuCallback(ctx, query, parts)
	case "channel":
		response = b.handleChannelCallback(ctx, query, parts)
	default:
		response = CallbackResponse{Answer: "Unknown action", ShowAlert: true}
	}

	// 发送响应
	b.sendCallbackResponse(query, response)
}

// CallbackResponse 回调响应结构
type CallbackResponse struct {
	Answer     string                         // Callback answer 提示文本
	ShowAlert  bool                           // 是否显示为弹窗
	EditText   string                         // 要编辑的消息文本
	EditMarkup *tgbotapi.InlineKeyboardMarkup // 要编辑的按钮
	NewMessage string                         // 发送新消息
	NewMarkup  *tgbotapi.InlineKeyboardMarkup // 新消息的按钮
	Delete     bool                           // 删除按钮所在消息及其回复的消息
}

// sendCallbackResponse 发送回调响应
func (b *Bot) sendCallbackResponse(query *tgbotapi.CallbackQuery, response CallbackResponse) {
	b.answerCallback(query.ID, response.Answer, response.ShowAlert)

	chatID := query.Message.Chat.ID

	if response.Delete {
		b.deleteMessage(chatID, query.Message.MessageID)
		if reply := query.Message.ReplyToMessage; reply != nil {
			b.deleteMessage(chatID, reply.MessageID)
		}
		return
	}

	if response.EditText != "" {
		if err := b.edit(chatID, query.Message.MessageID, response.EditText, response.EditMarkup); err != nil {
			logger.ErrorKV("failed to edit message", "error", err)
		}
	}

	if response.NewMessage != "" {
		if _, err := b.send(chatID, response.NewMessage, response.NewMarkup); err != nil {
			logger.ErrorKV("failed to send message", "error", err)
		}
	}
}

// answerCallback 应答回调查询
func (b *Bot) answerCallback(callbackID, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(callbackID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.ErrorKV("failed to answer callback", "error", err)
	}
}

// 辅助函数：获取参数
func getCallbackParam(parts []string, index int) string {
	if len(parts) > index {
		return parts[index]
	}
	return ""
}

// 辅助函数：字符串转 int64
func strToInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		logger.WarnKV("failed to convert string to int64", "input", s, "error", err)
		return 0, false
	}
	return n, true
}

// Package bot 提供 Telegram Bot 功能
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/ban"
	"links-share-bot/internal/broadcast"
	"links-share-bot/internal/channel"
	"links-share-bot/internal/config"
	"links-share-bot/internal/crash"
	"links-share-bot/internal/gatekeeper"
	"links-share-bot/internal/logger"
	"links-share-bot/internal/metrics"
	"links-share-bot/internal/telegram"
	"links-share-bot/internal/user"
	"links-share-bot/pkg/timeutil"
)

// Bot Telegram Bot 实例
type Bot struct {
	api         *tgbotapi.BotAPI
	client      *telegram.Client
	cfg         *config.Config
	users       *user.Service
	bans        *ban.Service
	channels    *channel.Service
	gate        *gatekeeper.Gatekeeper
	broadcaster *broadcast.Broadcaster

	handlers  map[string]CommandHandler
	adminOnly map[string]bool
	startedAt time.Time

	// 更新处理与延迟删除，Stop 时取消并等待退出
	ctx     context.Context
	stop    context.CancelFunc
	pending sync.WaitGroup
}

// CommandHandler 命令处理函数类型
// 返回的文本以 HTML 回复，需要按钮的处理器自行发送并返回空字符串。
type CommandHandler func(ctx context.Context, msg *tgbotapi.Message, args []string) (string, error)

// Deps Bot 依赖的服务
type Deps struct {
	Client      *telegram.Client
	Users       *user.Service
	Bans        *ban.Service
	Channels    *channel.Service
	Gatekeeper  *gatekeeper.Gatekeeper
	Broadcaster *broadcast.Broadcaster
}

// New 创建 Bot 实例
func New(cfg *config.Config, deps Deps) *Bot {
	ctx, stop := context.WithCancel(context.Background())

	b := &Bot{
		api:         deps.Client.API(),
		client:      deps.Client,
		cfg:         cfg,
		users:       deps.Users,
		bans:        deps.Bans,
		channels:    deps.Channels,
		gate:        deps.Gatekeeper,
		broadcaster: deps.Broadcaster,
		handlers:    make(map[string]CommandHandler),
		adminOnly:   make(map[string]bool),
		startedAt:   time.Now(),
		ctx:         ctx,
		stop:        stop,
	}

	b.registerHandlers()

	if err := b.setupBotCommands(); err != nil {
		logger.Warnf("failed to setup bot commands: %v", err)
	}

	logger.Infof("bot authorized: @%s", b.client.Username())
	return b
}

// Start 拉取更新直到 ctx 取消
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.Telegram.Timeout
	u.AllowedUpdates = []string{"message", "callback_query"}

	updates := b.api.GetUpdatesChan(u)

	logger.Info("bot listening for messages")

	for {
		select {
		case <-ctx.Done():
			logger.Info("bot received stop signal")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			if update.CallbackQuery != nil {
				metrics.Updates.WithLabelValues("callback").Inc()
				b.dispatch("callback", func() { b.handleCallbackQuery(ctx, update.CallbackQuery) })
				continue
			}

			if update.Message != nil {
				metrics.Updates.WithLabelValues("message").Inc()
				b.dispatch("message", func() { b.handleUpdate(ctx, update.Message) })
			}
		}
	}
}

// dispatch 在独立 goroutine 中处理一条更新
func (b *Bot) dispatch(kind string, fn func()) {
	b.pending.Add(1)
	crash.SafeGo("bot "+kind, func() {
		defer b.pending.Done()
		fn()
	})
}

// Stop 停止拉取更新，等待处理中的更新结束
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	b.stop()
	b.pending.Wait()
	logger.Info("bot stopped receiving updates")
}

// handleUpdate 处理消息更新
func (b *Bot) handleUpdate(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || !msg.IsCommand() || !isPrivateChat(msg) {
		return
	}

	userID := msg.From.ID
	isAdmin := b.isAdmin(userID)

	if !isAdmin {
		banned, err := b.bans.IsBanned(ctx, userID)
		if err != nil {
			logger.ErrorKV("failed to check ban list", "user_id", userID, "error", err)
		}
		if banned {
			logger.DebugKV("ignored banned user", "user_id", userID)
			return
		}
	}

	verdict := b.gate.Flood(userID, isAdmin)
	if verdict.Blocked {
		if verdict.JustBanned {
			logger.WarnKV("user temporarily banned for flooding", "user_id", userID, "until", timeutil.FormatDateTime(verdict.Until))
		}
		b.reply(msg.Chat.ID, "<b><blockquote expandable>You are temporarily banned from using commands due to spamming. Try again later.</blockquote></b>")
		return
	}

	b.handleCommand(ctx, msg)
}

// handleCommand 处理命令
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := parseArgs(msg.CommandArguments())

	handler, ok := b.handlers[cmd]
	if !ok {
		return
	}

	logger.InfoKV("user executed command", "user", displayName(msg.From), "command", cmd)

	if b.adminOnly[cmd] && !b.isAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, "⛔ This command is only available to admins.")
		return
	}

	reply, err := handler(ctx, msg, args)
	if err != nil {
		logger.ErrorKV("command execution failed", "command", cmd, "error", err)
		b.reply(msg.Chat.ID, fmt.Sprintf("<b><blockquote expandable>❌ Error: <code>%s</code></blockquote></b>", escape(err.Error())))
		return
	}

	if reply != "" {
		b.reply(msg.Chat.ID, reply)
	}
}

// reply 回复消息
func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.send(chatID, text, nil); err != nil {
		logger.Errorf("failed to send message: %v", err)
	}
}

// send 发送 HTML 消息，markup 可为 nil
func (b *Bot) send(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	return b.api.Send(msg)
}

// edit 编辑已发送的 HTML 消息
func (b *Bot) edit(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	if markup != nil {
		edit.ReplyMarkup = markup
	}
	_, err := b.api.Send(edit)
	return err
}

// deleteMessage 删除消息，失败只记录日志
func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		logger.DebugKV("failed to delete message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

// deleteAfter 延迟删除消息，Bot 停止时放弃
func (b *Bot) deleteAfter(chatID int64, messageID int, d time.Duration) {
	b.pending.Add(1)
	crash.SafeGo("delete message", func() {
		defer b.pending.Done()
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-b.ctx.Done():
		case <-timer.C:
			b.deleteMessage(chatID, messageID)
		}
	})
}

// isAdmin 检查用户是否为管理员（含 owner）
func (b *Bot) isAdmin(telegramID int64) bool {
	return b.cfg.Telegram.IsAdmin(telegramID)
}

// isPrivateChat 检查是否为私聊
func isPrivateChat(msg *tgbotapi.Message) bool {
	return msg.Chat != nil && msg.Chat.IsPrivate()
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return u.String()
}

// setupBotCommands 设置 Bot 命令菜单
func (b *Bot) setupBotCommands() error {
	userCommands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
	}

	adminCommands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "help", Description: "Show admin commands"},
		{Command: "id", Description: "Show info of a forwarded message"},
		{Command: "setlink", Description: "Set or clear a channel's original link"},
		{Command: "addfsub", Description: "Add a force-subscribe channel"},
		{Command: "delfsub", Description: "Remove a force-subscribe channel"},
		{Command: "fsublist", Description: "List force-subscribe channels"},
		{Command: "ban", Description: "Ban users"},
		{Command: "unban", Description: "Unban users"},
		{Command: "banlist", Description: "List banned users"},
		{Command: "checkban", Description: "Check if a user is banned"},
		{Command: "broadcast", Description: "Broadcast the replied message"},
		{Command: "cancel", Description: "Cancel the running broadcast"},
		{Command: "status", Description: "Show bot status"},
	}

	privateScope := tgbotapi.BotCommandScope{Type: "all_private_chats"}
	privateCfg := tgbotapi.SetMyCommandsConfig{
		Commands: userCommands,
		Scope:    &privateScope,
	}
	if _, err := b.api.Request(privateCfg); err != nil {
		return fmt.Errorf("set private commands: %w", err)
	}

	// 管理员私聊显示完整命令
	for _, id := range b.cfg.Telegram.AllAdminIDs() {
		scope := tgbotapi.BotCommandScope{Type: "chat", ChatID: id}
		cfg := tgbotapi.SetMyCommandsConfig{
			Commands: adminCommands,
			Scope:    &scope,
		}
		if _, err := b.api.Request(cfg); err != nil {
			logger.WarnKV("failed to set admin commands", "admin_id", id, "error", err)
		}
	}

	logger.Info("bot commands configured")
	return nil
}

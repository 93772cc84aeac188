// Package telegram Bot API 客户端适配层
//
// 把 tgbotapi 的调用包装成各业务包声明的平台接口，并把 Bot API 错误归类为 platform 包的错误。
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/platform"
)

// Client Bot API 客户端
//
// tgbotapi 不接受 context，调用前只检查 ctx 是否已取消。
type Client struct {
	api *tgbotapi.BotAPI
}

// New 创建客户端并校验 token
func New(token string, timeout time.Duration, debug bool) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	if timeout > 0 {
		api.Client.Timeout = timeout + 10*time.Second
	}
	api.Debug = debug

	return &Client{api: api}, nil
}

// NewFromAPI 包装已创建的 BotAPI
func NewFromAPI(api *tgbotapi.BotAPI) *Client {
	return &Client{api: api}
}

// API 底层 BotAPI，供消息收发使用
func (c *Client) API() *tgbotapi.BotAPI {
	return c.api
}

func (c *Client) BotID() int64 {
	return c.api.Self.ID
}

func (c *Client) Username() string {
	return c.api.Self.UserName
}

// Ping 调用 getMe 测量往返时间
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	start := time.Now()
	if _, err := c.api.GetMe(); err != nil {
		return 0, classify(err)
	}
	return time.Since(start), nil
}

func (c *Client) GetChat(ctx context.Context, chatID int64) (platform.Chat, error) {
	if err := ctx.Err(); err != nil {
		return platform.Chat{}, err
	}

	chat, err := c.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return platform.Chat{}, classify(err)
	}

	return platform.Chat{
		ID:          chat.ID,
		Type:        chat.Type,
		Title:       chatTitle(chat),
		Username:    chat.UserName,
		Description: chat.Description,
	}, nil
}

func (c *Client) GetMemberStatus(ctx context.Context, chatID, userID int64) (platform.MemberStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		return "", classify(err)
	}
	return platform.MemberStatus(member.Status), nil
}

// CreateInviteLink 创建带过期时间的邀请链接
func (c *Client) CreateInviteLink(ctx context.Context, chatID int64, expireAt time.Time, createsJoinRequest bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cfg := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:         tgbotapi.ChatConfig{ChatID: chatID},
		CreatesJoinRequest: createsJoinRequest,
	}
	if !expireAt.IsZero() {
		cfg.ExpireDate = int(expireAt.Unix())
	}

	resp, err := c.api.Request(cfg)
	if err != nil {
		return "", classify(err)
	}

	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", fmt.Errorf("decode invite link: %w", err)
	}
	if link.InviteLink == "" {
		return "", fmt.Errorf("empty invite link for chat %d", chatID)
	}
	return link.InviteLink, nil
}

func (c *Client) RevokeInviteLink(ctx context.Context, chatID int64, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.api.Request(tgbotapi.RevokeChatInviteLinkConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
		InviteLink: link,
	})
	return classify(err)
}

// CopyMessage 复制消息（不带转发来源），返回新消息 ID
func (c *Client) CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int, silent bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cfg := tgbotapi.NewCopyMessage(toChatID, fromChatID, messageID)
	cfg.DisableNotification = silent

	sent, err := c.api.CopyMessage(cfg)
	if err != nil {
		return 0, classify(err)
	}
	return sent.MessageID, nil
}

func (c *Client) PinMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.api.Request(tgbotapi.PinChatMessageConfig{
		ChatID:    chatID,
		MessageID: messageID,
	})
	return classify(err)
}

func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return classify(err)
}

func chatTitle(chat tgbotapi.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	if chat.LastName != "" {
		return chat.FirstName + " " + chat.LastName
	}
	return chat.FirstName
}

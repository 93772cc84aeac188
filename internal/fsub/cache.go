package fsub

import (
	"context"
	"sync"

	"links-share-bot/internal/platform"
)

// ChatCache 进程内的聊天元数据缓存，不做过期
type ChatCache struct {
	mu     sync.RWMutex
	chats  map[int64]platform.Chat
	getter func(ctx context.Context, chatID int64) (platform.Chat, error)
}

func NewChatCache(getter func(ctx context.Context, chatID int64) (platform.Chat, error)) *ChatCache {
	return &ChatCache{
		chats:  make(map[int64]platform.Chat),
		getter: getter,
	}
}

// Get 命中缓存直接返回，否则从平台获取并缓存
func (c *ChatCache) Get(ctx context.Context, chatID int64) (platform.Chat, error) {
	c.mu.RLock()
	chat, ok := c.chats[chatID]
	c.mu.RUnlock()
	if ok {
		return chat, nil
	}

	chat, err := c.getter(ctx, chatID)
	if err != nil {
		return platform.Chat{}, err
	}

	c.mu.Lock()
	c.chats[chatID] = chat
	c.mu.Unlock()

	return chat, nil
}

// Invalidate 删除单个聊天的缓存
func (c *ChatCache) Invalidate(chatID int64) {
	c.mu.Lock()
	delete(c.chats, chatID)
	c.mu.Unlock()
}

// Clear 清空缓存
func (c *ChatCache) Clear() {
	c.mu.Lock()
	c.chats = make(map[int64]platform.Chat)
	c.mu.Unlock()
}

// Len 缓存条目数
func (c *ChatCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.chats)
}

// Package platform 聊天平台调用的公共类型与错误分类
package platform

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUserBlocked 用户已屏蔽 Bot
	ErrUserBlocked = errors.New("bot was blocked by the user")

	// ErrUserDeactivated 用户账号已注销
	ErrUserDeactivated = errors.New("user is deactivated")

	// ErrNotParticipant 用户不在该聊天中
	ErrNotParticipant = errors.New("user not participant")

	// ErrChatNotFound 聊天不存在或 Bot 无权访问
	ErrChatNotFound = errors.New("chat not found")
)

// FloodWaitError 平台限流，需要等待 RetryAfter 后重试
type FloodWaitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("flood wait %s: %v", e.RetryAfter, e.Err)
}

func (e *FloodWaitError) Unwrap() error {
	return e.Err
}

// RetryAfter 如果 err 是限流错误，返回需要等待的时长
func RetryAfter(err error) (time.Duration, bool) {
	var fw *FloodWaitError
	if errors.As(err, &fw) {
		return fw.RetryAfter, true
	}
	return 0, false
}

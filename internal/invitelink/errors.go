package invitelink

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 频道没有当前邀请记录
	ErrNotFound = errors.New("invite record not found")

	// ErrLinkUnavailable 无法为频道提供可用链接，调用方只展示通用提示
	ErrLinkUnavailable = errors.New("invite link unavailable")
)

func NotFoundError(channelID int64) error {
	return fmt.Errorf("%w: channel %d", ErrNotFound, channelID)
}

func LinkUnavailableError(channelID int64, cause error) error {
	return fmt.Errorf("%w: channel %d: %v", ErrLinkUnavailable, channelID, cause)
}

package channel

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("channel not found")
	ErrInvalidToken = errors.New("invalid or expired invite link")
)

func NotFoundError(channelID int64) error {
	return fmt.Errorf("%w: %d", ErrNotFound, channelID)
}

func InvalidTokenError(token string) error {
	return fmt.Errorf("%w: %q", ErrInvalidToken, token)
}

package fsub

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("channel not in force-subscribe list")
	ErrAlreadyExists = errors.New("channel already in force-subscribe list")
	ErrBotNotAdmin   = errors.New("bot is not an admin of the channel")
)

func NotFoundError(channelID int64) error {
	return fmt.Errorf("%w: %d", ErrNotFound, channelID)
}

func AlreadyExistsError(channelID int64) error {
	return fmt.Errorf("%w: %d", ErrAlreadyExists, channelID)
}

func BotNotAdminError(title string) error {
	return fmt.Errorf("%w: %s", ErrBotNotAdmin, title)
}

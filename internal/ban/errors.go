package ban

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("user is not banned")
	ErrAlreadyBanned = errors.New("user is already banned")
)

func NotFoundError(telegramID int64) error {
	return fmt.Errorf("%w: %d", ErrNotFound, telegramID)
}

func AlreadyBannedError(telegramID int64) error {
	return fmt.Errorf("%w: %d", ErrAlreadyBanned, telegramID)
}

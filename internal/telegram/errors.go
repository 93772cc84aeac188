package telegram

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"links-share-bot/internal/platform"
)

// classify 把 Bot API 错误归类为 platform 错误，原错误保留在链上
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	if apiErr.RetryAfter > 0 {
		return &platform.FloodWaitError{
			RetryAfter: time.Duration(apiErr.RetryAfter) * time.Second,
			Err:        err,
		}
	}

	msg := strings.ToLower(apiErr.Message)
	switch {
	case strings.Contains(msg, "blocked by the user"):
		return fmt.Errorf("%w: %w", platform.ErrUserBlocked, err)
	case strings.Contains(msg, "user is deactivated"), strings.Contains(msg, "input_user_deactivated"):
		return fmt.Errorf("%w: %w", platform.ErrUserDeactivated, err)
	case strings.Contains(msg, "user_not_participant"),
		strings.Contains(msg, "participant_id_invalid"),
		strings.Contains(msg, "user not found"):
		return fmt.Errorf("%w: %w", platform.ErrNotParticipant, err)
	case strings.Contains(msg, "chat not found"), strings.Contains(msg, "channel_private"):
		return fmt.Errorf("%w: %w", platform.ErrChatNotFound, err)
	}

	return err
}

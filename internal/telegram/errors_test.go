package telegram

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"links-share-bot/internal/platform"
)

func apiError(message string) error {
	return &tgbotapi.Error{Code: 400, Message: message}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"blocked", apiError("Forbidden: bot was blocked by the user"), platform.ErrUserBlocked},
		{"deactivated", apiError("Forbidden: user is deactivated"), platform.ErrUserDeactivated},
		{"not participant", apiError("Bad Request: USER_NOT_PARTICIPANT"), platform.ErrNotParticipant},
		{"participant id invalid", apiError("Bad Request: PARTICIPANT_ID_INVALID"), platform.ErrNotParticipant},
		{"user not found", apiError("Bad Request: user not found"), platform.ErrNotParticipant},
		{"chat not found", apiError("Bad Request: chat not found"), platform.ErrChatNotFound},
		{"wrapped", fmt.Errorf("send: %w", apiError("Forbidden: bot was blocked by the user")), platform.ErrUserBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.ErrorIs(t, got, tt.want)

			var apiErr *tgbotapi.Error
			assert.True(t, errors.As(got, &apiErr))
		})
	}
}

func TestClassifyFloodWait(t *testing.T) {
	err := &tgbotapi.Error{
		Code:               429,
		Message:            "Too Many Requests: retry after 12",
		ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 12},
	}

	d, ok := platform.RetryAfter(classify(err))
	assert.True(t, ok)
	assert.Equal(t, 12*time.Second, d)
}

func TestClassifyPassthrough(t *testing.T) {
	assert.NoError(t, classify(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, classify(plain))

	other := apiError("Bad Request: message text is empty")
	assert.Equal(t, other, classify(other))
}

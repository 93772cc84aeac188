package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadableDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{2*time.Minute + 5*time.Second, "2m:5s"},
		{3 * time.Hour, "3h:0m:0s"},
		{26*time.Hour + time.Minute + time.Second, "1d:2h:1m:1s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadableDuration(tt.in))
		})
	}
}

func TestMilliseconds(t *testing.T) {
	assert.Equal(t, "12.50 ms", Milliseconds(12500*time.Microsecond))
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
	assert.Equal(t, "2024-03-05 07:08:09", FormatDateTime(ts))
}

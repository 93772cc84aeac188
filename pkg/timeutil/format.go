// Package timeutil 提供时间处理工具
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateTimeFormat 标准日期时间格式
	DateTimeFormat = "2006-01-02 15:04:05"
)

// FormatDateTime 格式化日期时间
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeFormat)
}

// ReadableDuration 格式化为 "1d:2h:3m:4s"，省略为零的高位
func ReadableDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	total := int64(d / time.Second)
	parts := []struct {
		value int64
		unit  string
	}{
		{total / 86400, "d"},
		{total % 86400 / 3600, "h"},
		{total % 3600 / 60, "m"},
		{total % 60, "s"},
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.value == 0 && len(out) == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%d%s", p.value, p.unit))
	}
	return strings.Join(out, ":")
}

// Milliseconds 以毫秒显示，保留两位小数
func Milliseconds(d time.Duration) string {
	return fmt.Sprintf("%.2f ms", float64(d)/float64(time.Millisecond))
}

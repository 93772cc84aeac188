// Package broadcast 向用户库群发消息
package broadcast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration delete 参数缺少或不是整数
var ErrInvalidDuration = errors.New("provide valid duration for delete mode")

// Mode 广播方式
type Mode struct {
	Pin         bool
	DeleteAfter time.Duration
	Silent      bool

	labels []string
}

// ParseMode 解析 /broadcast 参数：pin、delete N、silent，其余参数原样作为标签
func ParseMode(args []string) (Mode, error) {
	var m Mode

	for i := 0; i < len(args); i++ {
		arg := strings.ToLower(args[i])
		switch arg {
		case "pin":
			m.Pin = true
			m.labels = append(m.labels, "PIN")
		case "delete":
			if i+1 >= len(args) {
				return Mode{}, ErrInvalidDuration
			}
			seconds, err := strconv.Atoi(args[i+1])
			if err != nil || seconds <= 0 {
				return Mode{}, fmt.Errorf("%w: %q", ErrInvalidDuration, args[i+1])
			}
			i++
			m.DeleteAfter = time.Duration(seconds) * time.Second
			m.labels = append(m.labels, fmt.Sprintf("DELETE(%ds)", seconds))
		case "silent":
			m.Silent = true
			m.labels = append(m.labels, "SILENT")
		default:
			m.labels = append(m.labels, strings.ToUpper(arg))
		}
	}

	return m, nil
}

// String 形如 "PIN + DELETE(30s)"，无参数时为 NORMAL
func (m Mode) String() string {
	if len(m.labels) == 0 {
		return "NORMAL"
	}
	return strings.Join(m.labels, " + ")
}

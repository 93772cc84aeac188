// Package crash 后台 goroutine 的 panic 恢复
package crash

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"links-share-bot/internal/logger"
)

// Recover 恢复 panic 并记录堆栈，需在 defer 中直接调用
func Recover(name string) {
	if r := recover(); r != nil {
		report(name, r)
	}
}

// SafeGo 启动一个带有 panic 恢复的 goroutine
func SafeGo(name string, fn func()) {
	go func() {
		defer Recover(name)
		fn()
	}()
}

func report(name string, r interface{}) {
	stack := debug.Stack()

	logger.ErrorKV("panic recovered", "goroutine", name, "panic", r, "goroutines", runtime.NumGoroutine())
	logger.Errorf("stack trace:\n%s", stack)

	// 容器日志里也要能看到
	fmt.Fprintf(os.Stderr, "[PANIC] %s - %s: %v\n%s\n", time.Now().Format("2006-01-02 15:04:05"), name, r, stack)
}

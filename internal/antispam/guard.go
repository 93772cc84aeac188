// Package antispam 刷屏检测与临时封禁
package antispam

import (
	"sync"
	"time"

	"links-share-bot/internal/crash"
	"links-share-bot/internal/logger"
	"links-share-bot/internal/metrics"
)

const (
	DefaultMaxMessages     = 3
	DefaultWindow          = 10 * time.Second
	DefaultBanDuration     = time.Hour
	defaultCleanupInterval = 5 * time.Minute
)

// Options 检测参数
//
// Window 内的消息数超过 MaxMessages 时封禁 BanDuration。
type Options struct {
	MaxMessages     int
	Window          time.Duration
	BanDuration     time.Duration
	CleanupInterval time.Duration
	Now             func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxMessages <= 0 {
		o.MaxMessages = DefaultMaxMessages
	}
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.BanDuration <= 0 {
		o.BanDuration = DefaultBanDuration
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = defaultCleanupInterval
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Guard 进程内刷屏检测，状态不持久化
type Guard struct {
	opts Options

	mu          sync.Mutex
	hits        map[int64][]time.Time
	bannedUntil map[int64]time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewGuard 创建并启动清理 goroutine，使用完毕需调用 Stop
func NewGuard(opts Options) *Guard {
	g := &Guard{
		opts:        opts.withDefaults(),
		hits:        make(map[int64][]time.Time),
		bannedUntil: make(map[int64]time.Time),
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}

	crash.SafeGo("antispam cleanup", g.cleanupLoop)

	return g
}

// Stop 停止清理 goroutine，可重复调用
func (g *Guard) Stop() {
	g.stopOnce.Do(func() {
		close(g.stopCh)
	})
	<-g.done
}

// BannedUntil 用户处于临时封禁时返回解封时间
func (g *Guard) BannedUntil(userID int64) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	until, ok := g.bannedUntil[userID]
	if !ok || !g.opts.Now().Before(until) {
		return time.Time{}, false
	}
	return until, true
}

// Hit 记录一条消息，返回本次是否触发封禁
func (g *Guard) Hit(userID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.opts.Now()
	if until, ok := g.bannedUntil[userID]; ok && now.Before(until) {
		return false
	}

	recent := prune(g.hits[userID], now.Add(-g.opts.Window))
	recent = append(recent, now)

	if len(recent) <= g.opts.MaxMessages {
		g.hits[userID] = recent
		return false
	}

	delete(g.hits, userID)
	g.bannedUntil[userID] = now.Add(g.opts.BanDuration)
	metrics.TempBans.Inc()
	logger.InfoKV("user temporarily banned for flooding", "user_id", userID, "duration", g.opts.BanDuration)
	return true
}

// Release 提前解除临时封禁
func (g *Guard) Release(userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.bannedUntil, userID)
	delete(g.hits, userID)
}

// prune 去掉 cutoff 之前（含）的记录，原切片按时间递增
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

func (g *Guard) cleanupLoop() {
	defer close(g.done)

	ticker := time.NewTicker(g.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopCh:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

// cleanup 删除已过期的封禁与窗口外的计数
func (g *Guard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.opts.Now()
	for userID, until := range g.bannedUntil {
		if !now.Before(until) {
			delete(g.bannedUntil, userID)
		}
	}

	cutoff := now.Add(-g.opts.Window)
	for userID, hits := range g.hits {
		if recent := prune(hits, cutoff); len(recent) == 0 {
			delete(g.hits, userID)
		} else {
			g.hits[userID] = recent
		}
	}
}

// tracked 当前跟踪的用户数
func (g *Guard) tracked() (hits, bans int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.hits), len(g.bannedUntil)
}

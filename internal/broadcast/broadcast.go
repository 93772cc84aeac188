package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"links-share-bot/internal/crash"
	"links-share-bot/internal/logger"
	"links-share-bot/internal/metrics"
	"links-share-bot/internal/platform"
)

// ErrAlreadyRunning 同一时间只允许一个广播任务
var ErrAlreadyRunning = errors.New("a broadcast is already running")

const (
	defaultRatePerSecond = 25
	progressStep         = 5 // 百分点
	deleteTimeout        = 15 * time.Second
)

// Sender 广播需要的平台接口
type Sender interface {
	CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int, silent bool) (int, error)
	PinMessage(ctx context.Context, chatID int64, messageID int) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// UserStore 广播目标来源，投递失败的用户会被删除
type UserStore interface {
	ListIDs(ctx context.Context) ([]int64, error)
	Delete(ctx context.Context, telegramID int64) error
}

// Message 被转发的原消息
type Message struct {
	FromChatID int64
	MessageID  int
}

// Stats 投递计数
type Stats struct {
	Total        int
	Successful   int
	Blocked      int
	Deleted      int
	Unsuccessful int
}

// Processed 已处理的用户数
func (s Stats) Processed() int {
	return s.Successful + s.Blocked + s.Deleted + s.Unsuccessful
}

// Percent 完成比例 0~1
func (s Stats) Percent() float64 {
	if s.Total == 0 {
		return 1
	}
	return float64(s.Processed()) / float64(s.Total)
}

// Report 广播结果
type Report struct {
	JobID    string
	Mode     Mode
	Stats    Stats
	Canceled bool
	Elapsed  time.Duration
}

// ProgressFunc 首个用户、每推进至少 5% 以及最后一个用户处理后调用
type ProgressFunc func(Stats)

type Options struct {
	RatePerSecond float64
	Burst         int
	// Sleep 限流等待，测试可替换
	Sleep func(ctx context.Context, d time.Duration) error
}

// Broadcaster 广播执行器
type Broadcaster struct {
	sender  Sender
	users   UserStore
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	cancel context.CancelFunc

	// 延迟删除任务
	ctx       context.Context
	stop      context.CancelFunc
	deletions sync.WaitGroup
}

func New(sender Sender, users UserStore, opts Options) *Broadcaster {
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = defaultRatePerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}

	ctx, stop := context.WithCancel(context.Background())
	return &Broadcaster{
		sender:  sender,
		users:   users,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
		sleep:   opts.Sleep,
		ctx:     ctx,
		stop:    stop,
	}
}

// Running 是否有广播任务在执行
func (b *Broadcaster) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancel != nil
}

// Cancel 取消当前任务，没有任务时返回 false
func (b *Broadcaster) Cancel() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel == nil {
		return false
	}
	b.cancel()
	return true
}

// Run 把消息复制给用户库中的每个用户，阻塞直到完成或被取消
func (b *Broadcaster) Run(ctx context.Context, msg Message, mode Mode, progress ProgressFunc) (Report, error) {
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	b.mu.Lock()
	if b.cancel != nil {
		b.mu.Unlock()
		return Report{}, ErrAlreadyRunning
	}
	b.cancel = cancel
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.cancel = nil
		b.mu.Unlock()
	}()

	report := Report{JobID: uuid.NewString(), Mode: mode}
	started := time.Now()

	ids, err := b.users.ListIDs(jobCtx)
	if err != nil {
		return report, fmt.Errorf("list users: %w", err)
	}
	report.Stats.Total = len(ids)

	logger.InfoKV("broadcast started", "job_id", report.JobID, "mode", mode.String(), "total", len(ids))

	lastReported := -1
	for _, chatID := range ids {
		if jobCtx.Err() != nil {
			report.Canceled = true
			break
		}
		if err := b.limiter.Wait(jobCtx); err != nil {
			report.Canceled = true
			break
		}

		b.deliver(jobCtx, chatID, msg, mode, &report.Stats)

		if progress != nil {
			pct := report.Stats.Processed() * 100 / report.Stats.Total
			if lastReported < 0 || pct-lastReported >= progressStep || report.Stats.Processed() == report.Stats.Total {
				progress(report.Stats)
				lastReported = pct
			}
		}
	}

	report.Elapsed = time.Since(started)
	logger.InfoKV("broadcast finished",
		"job_id", report.JobID,
		"canceled", report.Canceled,
		"successful", report.Stats.Successful,
		"blocked", report.Stats.Blocked,
		"deleted", report.Stats.Deleted,
		"unsuccessful", report.Stats.Unsuccessful,
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// deliver 投递给单个用户并更新计数
func (b *Broadcaster) deliver(ctx context.Context, chatID int64, msg Message, mode Mode, stats *Stats) {
	sentID, err := b.sender.CopyMessage(ctx, chatID, msg.FromChatID, msg.MessageID, mode.Silent)
	if wait, ok := platform.RetryAfter(err); ok {
		if b.sleep(ctx, wait) != nil {
			stats.Unsuccessful++
			metrics.BroadcastDeliveries.WithLabelValues("unsuccessful").Inc()
			return
		}
		sentID, err = b.sender.CopyMessage(ctx, chatID, msg.FromChatID, msg.MessageID, mode.Silent)
		if err != nil {
			// 重试仍失败只计数，不删除用户
			stats.Unsuccessful++
			metrics.BroadcastDeliveries.WithLabelValues("unsuccessful").Inc()
			return
		}
	}

	switch {
	case err == nil:
		stats.Successful++
		metrics.BroadcastDeliveries.WithLabelValues("successful").Inc()
		b.afterSend(ctx, chatID, sentID, mode)
	case errors.Is(err, platform.ErrUserBlocked):
		stats.Blocked++
		metrics.BroadcastDeliveries.WithLabelValues("blocked").Inc()
		b.dropUser(ctx, chatID)
	case errors.Is(err, platform.ErrUserDeactivated):
		stats.Deleted++
		metrics.BroadcastDeliveries.WithLabelValues("deleted").Inc()
		b.dropUser(ctx, chatID)
	default:
		stats.Unsuccessful++
		metrics.BroadcastDeliveries.WithLabelValues("unsuccessful").Inc()
		logger.DebugKV("broadcast delivery failed", "chat_id", chatID, "error", err)
		b.dropUser(ctx, chatID)
	}
}

func (b *Broadcaster) afterSend(ctx context.Context, chatID int64, sentID int, mode Mode) {
	if mode.Pin {
		if err := b.sender.PinMessage(ctx, chatID, sentID); err != nil {
			logger.WarnKV("failed to pin broadcast message", "chat_id", chatID, "error", err)
		}
	}
	if mode.DeleteAfter > 0 {
		b.scheduleDelete(chatID, sentID, mode.DeleteAfter)
	}
}

func (b *Broadcaster) dropUser(ctx context.Context, chatID int64) {
	if err := b.users.Delete(ctx, chatID); err != nil {
		logger.WarnKV("failed to remove user from userbase", "chat_id", chatID, "error", err)
	}
}

// scheduleDelete 延迟删除已发送的消息，Close 时未到期的任务直接放弃
func (b *Broadcaster) scheduleDelete(chatID int64, messageID int, after time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctx.Err() != nil {
		return
	}

	b.deletions.Add(1)
	crash.SafeGo("broadcast-delete", func() {
		defer b.deletions.Done()

		if err := sleepCtx(b.ctx, after); err != nil {
			return
		}

		ctx, cancel := context.WithTimeout(b.ctx, deleteTimeout)
		defer cancel()
		if err := b.sender.DeleteMessage(ctx, chatID, messageID); err != nil {
			logger.DebugKV("failed to delete broadcast message", "chat_id", chatID, "error", err)
		}
	})
}

// Close 取消当前任务与未执行的延迟删除
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.stop()
	b.mu.Unlock()

	b.deletions.Wait()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

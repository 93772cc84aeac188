package invitelink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"links-share-bot/internal/crash"
	"links-share-bot/internal/logger"
	"links-share-bot/internal/metrics"
)

const revokeTimeout = 30 * time.Second

// Manager 邀请链接发放管理器
//
// 同一频道的"读取-判断-创建"在频道锁内串行执行，不同频道互不阻塞。
// 新建链接后在锁外登记一个延迟撤销任务，续期时取消旧任务。
type Manager struct {
	store    Store
	platform Platform
	opts     Options

	mu      sync.Mutex
	locks   map[int64]*sync.Mutex
	pending map[int64]*revokeJob

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// revokeJob 已登记的延迟撤销任务
type revokeJob struct {
	link     string
	issuedAt time.Time
	cancel   context.CancelFunc
}

// NewManager 创建管理器，使用完毕需调用 Close
func NewManager(store Store, platform Platform, opts Options) *Manager {
	if store == nil {
		panic("invitelink.NewManager: store cannot be nil")
	}
	if platform == nil {
		panic("invitelink.NewManager: platform cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:    store,
		platform: platform,
		opts:     opts.withDefaults(),
		locks:    make(map[int64]*sync.Mutex),
		pending:  make(map[int64]*revokeJob),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// EnsureInvite 返回频道当前可用的加入链接
//
// 频道配置了原始链接时直接返回该链接，不访问平台。
func (m *Manager) EnsureInvite(ctx context.Context, channelID int64, isRequest bool) (Result, error) {
	original, err := m.store.GetOriginalLink(ctx, channelID)
	if err != nil {
		metrics.InviteIssued.WithLabelValues("failed").Inc()
		return Result{}, LinkUnavailableError(channelID, fmt.Errorf("get original link: %w", err))
	}
	if original != "" {
		metrics.InviteIssued.WithLabelValues("passthrough").Inc()
		return Result{Link: original, Passthrough: true}, nil
	}

	rec, created, err := m.issue(ctx, channelID, isRequest)
	if err != nil {
		metrics.InviteIssued.WithLabelValues("failed").Inc()
		return Result{}, err
	}

	if !created {
		metrics.InviteIssued.WithLabelValues("cache_hit").Inc()
		return Result{Link: rec.InviteLink, IsRequest: rec.IsRequest}, nil
	}

	metrics.InviteIssued.WithLabelValues("created").Inc()
	m.scheduleRevoke(rec)

	return Result{Link: rec.InviteLink, IsRequest: rec.IsRequest}, nil
}

// issue 在频道锁内复用或创建记录，created 表示本次新建了链接
func (m *Manager) issue(ctx context.Context, channelID int64, isRequest bool) (rec *Record, created bool, err error) {
	lock := m.channelLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	current, err := m.store.GetInviteRecord(ctx, channelID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, false, LinkUnavailableError(channelID, fmt.Errorf("get invite record: %w", err))
	}

	now := m.opts.Now()

	if current != nil {
		if current.Age(now) < m.opts.FreshWindow {
			return current, false, nil
		}

		// 过期记录：先撤销旧链接，失败不影响续期
		m.cancelRevoke(channelID)
		m.revoke(ctx, channelID, current.InviteLink, "renewal")
	}

	link, err := m.platform.CreateInviteLink(ctx, channelID, now.Add(m.opts.LinkExpiry), isRequest)
	if err != nil {
		return nil, false, LinkUnavailableError(channelID, fmt.Errorf("create invite link: %w", err))
	}

	rec = &Record{
		ChannelID:  channelID,
		InviteLink: link,
		IsRequest:  isRequest,
		CreatedAt:  now,
	}

	if err := m.store.PutInviteRecord(ctx, rec); err != nil {
		// 未落库的链接不能留在平台上
		m.revoke(ctx, channelID, link, "orphan")
		return nil, false, LinkUnavailableError(channelID, fmt.Errorf("put invite record: %w", err))
	}

	logger.InfoKV("invite link created", "channel_id", channelID, "is_request", isRequest)
	return rec, true, nil
}

// channelLock 获取频道锁，首次访问时创建，之后不再删除
func (m *Manager) channelLock(channelID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[channelID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[channelID] = lock
	}
	return lock
}

func (m *Manager) revoke(ctx context.Context, channelID int64, link, reason string) {
	if err := m.platform.RevokeInviteLink(ctx, channelID, link); err != nil {
		metrics.InviteRevoked.WithLabelValues(reason, "failed").Inc()
		logger.WarnKV("failed to revoke invite link", "channel_id", channelID, "reason", reason, "error", err)
		return
	}
	metrics.InviteRevoked.WithLabelValues(reason, "ok").Inc()
	logger.DebugKV("invite link revoked", "channel_id", channelID, "reason", reason)
}

// scheduleRevoke 登记延迟撤销任务，替换该频道更早签发的任务
func (m *Manager) scheduleRevoke(rec *Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx.Err() != nil {
		return
	}

	if prev, ok := m.pending[rec.ChannelID]; ok {
		if prev.issuedAt.After(rec.CreatedAt) {
			return
		}
		prev.cancel()
	}

	jobCtx, cancel := context.WithCancel(m.ctx)
	job := &revokeJob{link: rec.InviteLink, issuedAt: rec.CreatedAt, cancel: cancel}
	m.pending[rec.ChannelID] = job
	metrics.PendingRevokes.Set(float64(len(m.pending)))

	m.wg.Add(1)
	channelID, delay := rec.ChannelID, m.opts.RevokeDelay
	crash.SafeGo("deferred-revoke", func() {
		defer m.wg.Done()
		defer m.finishRevoke(channelID, job)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-jobCtx.Done():
			return
		case <-timer.C:
		}

		ctx, cancel := context.WithTimeout(m.ctx, revokeTimeout)
		defer cancel()
		m.revoke(ctx, channelID, job.link, "deferred")
	})
}

// cancelRevoke 取消频道上尚未执行的延迟撤销
func (m *Manager) cancelRevoke(channelID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if job, ok := m.pending[channelID]; ok {
		job.cancel()
		delete(m.pending, channelID)
		metrics.PendingRevokes.Set(float64(len(m.pending)))
	}
}

func (m *Manager) finishRevoke(channelID int64, job *revokeJob) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.cancel()
	if m.pending[channelID] == job {
		delete(m.pending, channelID)
		metrics.PendingRevokes.Set(float64(len(m.pending)))
	}
}

// PendingRevokes 当前登记的延迟撤销任务数
func (m *Manager) PendingRevokes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Close 取消所有未执行的延迟撤销并等待任务退出
func (m *Manager) Close() {
	// 与 scheduleRevoke 互斥，保证 Close 之后不会再有 wg.Add
	m.mu.Lock()
	m.cancel()
	m.mu.Unlock()

	m.wg.Wait()
}

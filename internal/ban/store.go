package ban

import "context"

type Store interface {
	// Add 已存在时返回 ErrAlreadyBanned
	Add(ctx context.Context, telegramID int64) error

	// Remove 不存在时返回 ErrNotFound
	Remove(ctx context.Context, telegramID int64) error

	// Clear 清空名单，返回被移除的 ID
	Clear(ctx context.Context) ([]int64, error)

	Exists(ctx context.Context, telegramID int64) (bool, error)

	List(ctx context.Context) ([]int64, error)
}

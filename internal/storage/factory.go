// Package storage 按配置选择存储后端
package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"links-share-bot/internal/ban"
	"links-share-bot/internal/channel"
	"links-share-bot/internal/config"
	"links-share-bot/internal/database"
	"links-share-bot/internal/fsub"
	"links-share-bot/internal/logger"
	"links-share-bot/internal/storage/mongo"
	"links-share-bot/internal/storage/mysql"
	"links-share-bot/internal/storage/sqlite"
	"links-share-bot/internal/storage/sqlstore"
	"links-share-bot/internal/user"
)

type Stores struct {
	UserStore    user.Store
	BanStore     ban.Store
	FSubStore    fsub.Store
	ChannelStore channel.Store

	ping  func(ctx context.Context) error
	close func() error
}

// NewStores 打开数据库，SQL 后端会先执行迁移
func NewStores(ctx context.Context, cfg config.DatabaseConfig, debug bool) (*Stores, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.DSN, debug)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		return newSQLStores(ctx, db, cfg.Driver)

	case "mysql":
		db, err := mysql.Open(cfg.DSN, debug)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
		return newSQLStores(ctx, db, cfg.Driver)

	case "mongo":
		d, err := mongo.Open(ctx, cfg.DSN, cfg.Name)
		if err != nil {
			return nil, fmt.Errorf("open mongo database: %w", err)
		}
		return &Stores{
			UserStore:    mongo.NewUserStore(d),
			BanStore:     mongo.NewBanStore(d),
			FSubStore:    mongo.NewFSubStore(d),
			ChannelStore: mongo.NewChannelStore(d),
			ping:         d.Ping,
			close:        d.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

func newSQLStores(ctx context.Context, db *gorm.DB, driver string) (*Stores, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if err := database.RunMigrations(ctx, sqlDB, driver, logger.Slog()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate %s database: %w", driver, err)
	}

	return &Stores{
		UserStore:    sqlstore.NewUserStore(db),
		BanStore:     sqlstore.NewBanStore(db),
		FSubStore:    sqlstore.NewFSubStore(db),
		ChannelStore: sqlstore.NewChannelStore(db),
		ping:         sqlDB.PingContext,
		close:        sqlDB.Close,
	}, nil
}

// Ping 检查数据库连接，/readyz 使用
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Stores) Close() error {
	return s.close()
}

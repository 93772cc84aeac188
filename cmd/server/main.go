// Package main Links Share Bot 主入口
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"links-share-bot/internal/ban"
	"links-share-bot/internal/bot"
	"links-share-bot/internal/broadcast"
	"links-share-bot/internal/channel"
	"links-share-bot/internal/config"
	"links-share-bot/internal/gatekeeper"
	"links-share-bot/internal/logger"
	"links-share-bot/internal/observability"
	"links-share-bot/internal/storage"
	"links-share-bot/internal/telegram"
	"links-share-bot/internal/user"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Console:    cfg.Log.Console,
	}); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("===== links share bot starting =====")
	logger.Infof("version: %s", cfg.App.Version)
	logger.Infof("debug mode: %v", cfg.App.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := storage.NewStores(ctx, cfg.Database, cfg.App.Debug)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Infof("✓ database connected (driver: %s)", cfg.Database.Driver)

	userService := user.NewService(stores.UserStore)
	banService := ban.NewService(stores.BanStore, &cfg.Telegram)
	channelService := channel.NewService(stores.ChannelStore)

	client, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.GetTimeout(), cfg.App.Debug)
	if err != nil {
		logger.Fatalf("failed to initialize telegram client: %v", err)
	}

	gate := gatekeeper.New(gatekeeper.Deps{
		Invites:  channelService,
		FSub:     stores.FSubStore,
		Platform: client,
	}, gatekeeper.Options{
		Invite:   cfg.Invite,
		FSub:     cfg.FSub,
		AntiSpam: cfg.AntiSpam,
	})

	broadcaster := broadcast.New(client, userService, broadcast.Options{
		RatePerSecond: cfg.Broadcast.RatePerSecond,
		Burst:         cfg.Broadcast.Burst,
	})

	telegramBot := bot.New(cfg, bot.Deps{
		Client:      client,
		Users:       userService,
		Bans:        banService,
		Channels:    channelService,
		Gatekeeper:  gate,
		Broadcaster: broadcaster,
	})
	logger.Info("✓ telegram bot initialized")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return telegramBot.Start(gctx)
	})
	g.Go(func() error {
		return observability.NewServer(cfg.Observability.Listen, stores).Start(gctx)
	})

	logger.Info("===== bot ready =====")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("runtime error: %v", err)
	}

	logger.Info("shutting down bot...")
	telegramBot.Stop()
	broadcaster.Close()
	gate.Close()

	if err := stores.Close(); err != nil {
		logger.Errorf("failed to close database connection: %v", err)
	} else {
		logger.Info("✓ database connection closed")
	}

	logger.Info("===== bot stopped =====")
}

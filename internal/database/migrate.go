// Package database 数据库迁移
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrations embed.FS

// RunMigrations 执行内置迁移，driver 为 sqlite 或 mysql
func RunMigrations(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	var dialect goose.Dialect
	var subDir string

	switch driver {
	case "sqlite", "sqlite3":
		dialect = goose.DialectSQLite3
		subDir = "sqlite"
	case "mysql":
		dialect = goose.DialectMySQL
		subDir = "mysql"
	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}

	fsys, err := fs.Sub(migrations, "migrations/"+subDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	opts := []goose.ProviderOption{}
	if logger != nil {
		opts = append(opts, goose.WithSlog(logger))
	}

	provider, err := goose.NewProvider(dialect, db, fsys, opts...)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if logger != nil && len(results) > 0 {
		logger.Info("migrations applied", "count", len(results), "driver", driver)
	}

	return nil
}

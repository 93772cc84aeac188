// Package config 提供应用配置管理
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	App           AppConfig
	Telegram      TelegramConfig
	Database      DatabaseConfig
	Invite        InviteConfig
	FSub          FSubConfig `mapstructure:"fsub"`
	AntiSpam      AntiSpamConfig
	Broadcast     BroadcastConfig
	Log           LogConfig
	Observability ObservabilityConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string
	Version string
	Debug   bool
}

// TelegramConfig Telegram Bot 配置
type TelegramConfig struct {
	Token    string
	Timeout  int
	OwnerID  int64   `mapstructure:"owner_id"`
	AdminIDs []int64 `mapstructure:"admin_ids"`
}

// DatabaseConfig 数据库配置
// driver: sqlite / mysql / mongo
type DatabaseConfig struct {
	Driver string
	DSN    string
	Name   string // mongo 数据库名
}

// InviteConfig 邀请链接发放配置，三个时长相互独立
type InviteConfig struct {
	FreshWindow time.Duration `mapstructure:"fresh_window"`
	LinkExpiry  time.Duration `mapstructure:"link_expiry"`
	RevokeDelay time.Duration `mapstructure:"revoke_delay"`
	NoteTTL     time.Duration `mapstructure:"note_ttl"`
}

// FSubConfig 强制订阅配置
type FSubConfig struct {
	PrivateLinkExpiry time.Duration `mapstructure:"private_link_expiry"`
	Message           string
}

// AntiSpamConfig 刷屏临时封禁配置
type AntiSpamConfig struct {
	MaxMessages int           `mapstructure:"max_messages"`
	Window      time.Duration `mapstructure:"window"`
	BanDuration time.Duration `mapstructure:"ban_duration"`
}

// BroadcastConfig 广播配置
type BroadcastConfig struct {
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string
	Output     string
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
	Compress   bool
	Console    bool
}

// ObservabilityConfig 健康检查与指标服务配置，Listen 为空表示不启动
type ObservabilityConfig struct {
	Listen string
}

// Load 加载配置文件
// 优先级: 环境变量 > .env > 配置文件 > 默认值
func Load() (*Config, error) {
	// .env 可选，不覆盖已存在的环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/links-share-bot")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return build(v)
}

// build 解析 viper 内容并应用环境变量覆盖
func build(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 环境变量覆盖
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}

	if owner := os.Getenv("OWNER_ID"); owner != "" {
		id, err := strconv.ParseInt(owner, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse OWNER_ID: %w", err)
		}
		cfg.Telegram.OwnerID = id
	}

	if admins := os.Getenv("ADMINS"); admins != "" {
		ids, err := parseIDList(admins)
		if err != nil {
			return nil, fmt.Errorf("parse ADMINS: %w", err)
		}
		cfg.Telegram.AdminIDs = ids
	}

	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// App 默认值
	v.SetDefault("app.name", "Links Share Bot")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)

	// Telegram 默认值
	v.SetDefault("telegram.timeout", 60)
	v.SetDefault("telegram.owner_id", 0)
	v.SetDefault("telegram.admin_ids", []int64{})

	// Database 默认值
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/links.db")
	v.SetDefault("database.name", "links_share_bot")

	// 邀请链接
	v.SetDefault("invite.fresh_window", "4m")
	v.SetDefault("invite.link_expiry", "10m")
	v.SetDefault("invite.revoke_delay", "5m")
	v.SetDefault("invite.note_ttl", "5m")

	// 强制订阅
	v.SetDefault("fsub.private_link_expiry", "1h")
	v.SetDefault("fsub.message", "<b>🔒 You Must Join Our Channel(s) To Use This Bot\n\n👇 Click the button(s) below to join, then click 'Try Again'</b>")

	// 刷屏限制
	v.SetDefault("antispam.max_messages", 3)
	v.SetDefault("antispam.window", "10s")
	v.SetDefault("antispam.ban_duration", "1h")

	// 广播
	v.SetDefault("broadcast.rate_per_second", 25)
	v.SetDefault("broadcast.burst", 1)

	// Log 默认值
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.console", true)

	v.SetDefault("observability.listen", "")
}

// validate 验证配置
func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}

	if c.Telegram.Timeout <= 0 {
		c.Telegram.Timeout = 60
	}

	switch c.Database.Driver {
	case "sqlite", "mysql", "mongo":
	case "":
		return fmt.Errorf("database.driver is required")
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if c.Database.Driver == "mongo" && c.Database.Name == "" {
		return fmt.Errorf("database.name is required for mongo")
	}

	if c.Invite.FreshWindow <= 0 {
		c.Invite.FreshWindow = 4 * time.Minute
	}
	if c.Invite.LinkExpiry <= 0 {
		c.Invite.LinkExpiry = 10 * time.Minute
	}
	if c.Invite.RevokeDelay <= 0 {
		c.Invite.RevokeDelay = 5 * time.Minute
	}
	if c.Invite.NoteTTL <= 0 {
		c.Invite.NoteTTL = 5 * time.Minute
	}

	if c.FSub.PrivateLinkExpiry <= 0 {
		c.FSub.PrivateLinkExpiry = time.Hour
	}

	if c.AntiSpam.MaxMessages <= 0 {
		c.AntiSpam.MaxMessages = 3
	}
	if c.AntiSpam.Window <= 0 {
		c.AntiSpam.Window = 10 * time.Second
	}
	if c.AntiSpam.BanDuration <= 0 {
		c.AntiSpam.BanDuration = time.Hour
	}

	if c.Broadcast.RatePerSecond <= 0 {
		c.Broadcast.RatePerSecond = 25
	}
	if c.Broadcast.Burst <= 0 {
		c.Broadcast.Burst = 1
	}

	return nil
}

// GetTimeout 获取超时时间
func (c *TelegramConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// IsAdmin 检查用户是否为管理员（含 owner）
func (c *TelegramConfig) IsAdmin(userID int64) bool {
	if c.OwnerID != 0 && c.OwnerID == userID {
		return true
	}
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AllAdminIDs 返回 owner 与管理员 ID，去重
func (c *TelegramConfig) AllAdminIDs() []int64 {
	seen := make(map[int64]bool, len(c.AdminIDs)+1)
	ids := make([]int64, 0, len(c.AdminIDs)+1)
	if c.OwnerID != 0 {
		seen[c.OwnerID] = true
		ids = append(ids, c.OwnerID)
	}
	for _, id := range c.AdminIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// parseIDList 解析空格或逗号分隔的 ID 列表
func parseIDList(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", f, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

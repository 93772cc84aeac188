// Package logger 提供简化的日志功能
package logger

import (
	"io"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	log             = zap.NewNop().Sugar()
	slogW io.Writer = io.Discard
	level           = slog.LevelInfo
)

// Options 日志初始化参数
type Options struct {
	Level      string
	Output     string // stdout / stderr / 文件路径
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Console    bool // 输出到文件时同时输出到 stdout
}

// Init 初始化日志系统
func Init(opts Options) error {
	zapLevel := parseLevel(opts.Level)

	// 配置编码器
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = "\t"

	// 配置输出
	var writer io.Writer
	switch opts.Output {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		// 文件输出，按大小滚动
		rotator := &lumberjack.Logger{
			Filename:   opts.Output,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
			LocalTime:  true,
		}
		writer = rotator
		if opts.Console {
			writer = io.MultiWriter(os.Stdout, rotator)
		}
	}

	core := zapcore.NewCore(
		newAlignedEncoder(encoderConfig),
		zapcore.AddSync(writer),
		zapLevel,
	)

	log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	slogW = writer
	level = toSlogLevel(zapLevel)

	return nil
}

// parseLevel 解析日志级别，未知值按 info 处理
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func toSlogLevel(l zapcore.Level) slog.Level {
	switch l {
	case zapcore.DebugLevel:
		return slog.LevelDebug
	case zapcore.WarnLevel:
		return slog.LevelWarn
	case zapcore.ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Slog 返回写入同一输出的 slog.Logger，供只接受 *slog.Logger 的库使用
func Slog() *slog.Logger {
	return slog.New(newColorHandler(slogW, &slog.HandlerOptions{Level: level}))
}

// Sync 刷新日志缓冲
func Sync() {
	_ = log.Sync()
}

// Debug 输出 debug 级别日志
func Debug(args ...interface{}) {
	log.Debug(args...)
}

// Debugf 格式化输出 debug 级别日志
func Debugf(template string, args ...interface{}) {
	log.Debugf(template, args...)
}

// Info 输出 info 级别日志
func Info(args ...interface{}) {
	log.Info(args...)
}

// Infof 格式化输出 info 级别日志
func Infof(template string, args ...interface{}) {
	log.Infof(template, args...)
}

// Warn 输出 warn 级别日志
func Warn(args ...interface{}) {
	log.Warn(args...)
}

// Warnf 格式化输出 warn 级别日志
func Warnf(template string, args ...interface{}) {
	log.Warnf(template, args...)
}

// Error 输出 error 级别日志
func Error(args ...interface{}) {
	log.Error(args...)
}

// Errorf 格式化输出 error 级别日志
func Errorf(template string, args ...interface{}) {
	log.Errorf(template, args...)
}

// Fatal 输出 fatal 级别日志并退出程序
func Fatal(args ...interface{}) {
	log.Fatal(args...)
}

// Fatalf 格式化输出 fatal 级别日志并退出程序
func Fatalf(template string, args ...interface{}) {
	log.Fatalf(template, args...)
}

// DebugKV 输出带键值对的 debug 日志
func DebugKV(msg string, keysAndValues ...interface{}) {
	log.Debugw(msg, keysAndValues...)
}

// InfoKV 输出带键值对的 info 日志
func InfoKV(msg string, keysAndValues ...interface{}) {
	log.Infow(msg, keysAndValues...)
}

// WarnKV 输出带键值对的 warn 日志
func WarnKV(msg string, keysAndValues ...interface{}) {
	log.Warnw(msg, keysAndValues...)
}

// ErrorKV 输出带键值对的 error 日志
func ErrorKV(msg string, keysAndValues ...interface{}) {
	log.Errorw(msg, keysAndValues...)
}

// With 添加结构化字段
func With(args ...interface{}) *zap.SugaredLogger {
	return log.With(args...)
}

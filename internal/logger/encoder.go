package logger

import (
	"strings"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	callerWidth = 30
)

// alignedEncoder 固定宽度输出时间、级别、调用位置，消息和字段交给内部 console 编码器
type alignedEncoder struct {
	zapcore.Encoder
	pool buffer.Pool
}

func newAlignedEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	cfg.TimeKey = ""
	cfg.LevelKey = ""
	cfg.CallerKey = ""
	cfg.NameKey = ""
	cfg.StacktraceKey = ""
	return &alignedEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
		pool:    buffer.NewPool(),
	}
}

func (enc *alignedEncoder) Clone() zapcore.Encoder {
	return &alignedEncoder{
		Encoder: enc.Encoder.Clone(),
		pool:    enc.pool,
	}
}

func (enc *alignedEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	body, err := enc.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer body.Free()

	buf := enc.pool.Get()

	buf.AppendString(entry.Time.Format(time.RFC3339))
	buf.AppendByte('\t')

	buf.AppendString(padRight(entry.Level.CapitalString(), 5))
	buf.AppendByte('\t')

	caller := entry.Caller.TrimmedPath()
	if len(caller) > callerWidth {
		caller = "..." + caller[len(caller)-callerWidth+3:]
	}
	buf.AppendString(padRight(caller, callerWidth))
	buf.AppendByte('\t')

	// body 已包含换行
	_, _ = buf.Write(body.Bytes())

	if entry.Stack != "" {
		buf.AppendString(entry.Stack)
		buf.AppendByte('\n')
	}

	return buf, nil
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

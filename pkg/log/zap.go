package log

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	modeProduction  = "production"
	encodingJSON    = "json"
	encodingConsole = "console"
)

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func newZapLogger(cfg ZapConfig) *zapLogger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	if cfg.Mode == modeProduction {
		encoderCfg = zap.NewProductionEncoderConfig()
	}
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder
	if cfg.ColorEnabled && cfg.Encoding != encodingJSON {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var encoder zapcore.Encoder
	if cfg.Encoding == encodingJSON {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), parseLevel(cfg.Level))

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.DPanicLevel)}
	if cfg.Mode != modeProduction {
		opts = append(opts, zap.Development())
	}

	return &zapLogger{sugar: zap.New(core, opts...).Sugar()}
}

func zapNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// with attaches request-scoped fields found in ctx.
func (l *zapLogger) with(ctx context.Context) *zap.SugaredLogger {
	s := l.sugar
	if id := RequestID(ctx); id != "" {
		s = s.With("request_id", id)
	}
	if id := UserID(ctx); id != "" {
		s = s.With("user_id", id)
	}
	return s
}

func (l *zapLogger) Debug(ctx context.Context, arg ...any) { l.with(ctx).Debug(arg...) }
func (l *zapLogger) Debugf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Debugf(template, arg...)
}
func (l *zapLogger) Info(ctx context.Context, arg ...any) { l.with(ctx).Info(arg...) }
func (l *zapLogger) Infof(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Infof(template, arg...)
}
func (l *zapLogger) Warn(ctx context.Context, arg ...any) { l.with(ctx).Warn(arg...) }
func (l *zapLogger) Warnf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Warnf(template, arg...)
}
func (l *zapLogger) Error(ctx context.Context, arg ...any) { l.with(ctx).Error(arg...) }
func (l *zapLogger) Errorf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Errorf(template, arg...)
}
func (l *zapLogger) DPanic(ctx context.Context, arg ...any) { l.with(ctx).DPanic(arg...) }
func (l *zapLogger) DPanicf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).DPanicf(template, arg...)
}
func (l *zapLogger) Panic(ctx context.Context, arg ...any) { l.with(ctx).Panic(arg...) }
func (l *zapLogger) Panicf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Panicf(template, arg...)
}
func (l *zapLogger) Fatal(ctx context.Context, arg ...any) { l.with(ctx).Fatal(arg...) }
func (l *zapLogger) Fatalf(ctx context.Context, template string, arg ...any) {
	l.with(ctx).Fatalf(template, arg...)
}

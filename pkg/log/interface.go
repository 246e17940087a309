package log

import "context"

// Logger is the logging interface used across the service.
// Every method takes the request context so request-scoped fields
// (request id, user id) can be attached to the entry.
type Logger interface {
	Debug(ctx context.Context, arg ...any)
	Debugf(ctx context.Context, template string, arg ...any)
	Info(ctx context.Context, arg ...any)
	Infof(ctx context.Context, template string, arg ...any)
	Warn(ctx context.Context, arg ...any)
	Warnf(ctx context.Context, template string, arg ...any)
	Error(ctx context.Context, arg ...any)
	Errorf(ctx context.Context, template string, arg ...any)
	DPanic(ctx context.Context, arg ...any)
	DPanicf(ctx context.Context, template string, arg ...any)
	Panic(ctx context.Context, arg ...any)
	Panicf(ctx context.Context, template string, arg ...any)
	Fatal(ctx context.Context, arg ...any)
	Fatalf(ctx context.Context, template string, arg ...any)
}

// Init builds a zap-backed Logger from the given config.
func Init(cfg ZapConfig) Logger {
	return newZapLogger(cfg)
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &zapLogger{sugar: zapNop()}
}

package logger

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used across the pipeline. All methods take
// a context so request-scoped fields can be attached later without changing
// call sites.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}

type ctxKey struct{}

// WithRequestID returns a context carrying a request identifier that the
// logger attaches to every line.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID extracts the request identifier from ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type implLogger struct {
	zl zerolog.Logger
}

// New creates a Logger at the given level. Format "console" uses human
// readable output, anything else emits JSON lines.
func New(level, format string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if format == "console" {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		zl = zerolog.New(os.Stdout)
	}
	zl = zl.Level(lvl).With().Timestamp().Logger()

	return &implLogger{zl: zl}
}

func (l *implLogger) event(ctx context.Context, ev *zerolog.Event, msg string, args []interface{}) {
	if id := RequestID(ctx); id != "" {
		ev = ev.Str("request_id", id)
	}
	ev.Msgf(msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.zl.Debug(), msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.zl.Info(), msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.zl.Warn(), msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.event(ctx, l.zl.Error(), msg, args)
}

// Nop returns a logger that discards everything. Intended for tests.
func Nop() Logger {
	return &implLogger{zl: zerolog.Nop()}
}

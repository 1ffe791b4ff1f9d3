// Package log builds the configured slog.Logger for hidlink.
//
// Without a log file, records below error go to stdout and errors to
// stderr, so shell redirection can separate the two streams. With a log
// file, console output moves entirely to stderr and the file receives
// everything at the configured level.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace is a custom slog level below Debug for per-byte transfer
// tracing.
const LevelTrace slog.Level = -8

// ParseLevel maps a level name to its slog level; unknown names fall back
// to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout forwards records to every handler.
type fanout struct{ hs []slog.Handler }

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f.hs {
		_ = h.Handle(ctx, r)
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(f.hs))
	for i, h := range f.hs {
		out[i] = h.WithAttrs(attrs)
	}
	return fanout{hs: out}
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(f.hs))
	for i, h := range f.hs {
		out[i] = h.WithGroup(name)
	}
	return fanout{hs: out}
}

// levelRange delegates to a handler only for levels the predicate accepts.
type levelRange struct {
	pass func(slog.Level) bool
	h    slog.Handler
}

func (l levelRange) Enabled(ctx context.Context, level slog.Level) bool {
	return l.pass(level) && l.h.Enabled(ctx, level)
}

func (l levelRange) Handle(ctx context.Context, r slog.Record) error {
	if !l.pass(r.Level) {
		return nil
	}
	return l.h.Handle(ctx, r)
}

func (l levelRange) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelRange{pass: l.pass, h: l.h.WithAttrs(attrs)}
}

func (l levelRange) WithGroup(name string) slog.Handler {
	return levelRange{pass: l.pass, h: l.h.WithGroup(name)}
}

// Setup builds the logger from the CLI logging flags. The returned closers
// must be closed on shutdown when a log file is in use.
func Setup(levelName, file string) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(levelName)
	var handlers []slog.Handler

	if file == "" {
		out := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		handlers = append(handlers, levelRange{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: out})

		errOut := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
		handlers = append(handlers, levelRange{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: errOut})

		return slog.New(fanout{hs: handlers}), nil, nil
	}

	handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))

	return slog.New(fanout{hs: handlers}), []io.Closer{f}, nil
}

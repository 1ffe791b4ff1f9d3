package log

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// EchoWriter adapts a slog.Logger into the io.Writer expected as the
// diagnostic sink for echo reports. Each written line becomes one record
// at the given level. Partial writes are buffered until a newline arrives.
type EchoWriter struct {
	mu     sync.Mutex
	buf    strings.Builder
	logger *slog.Logger
	level  slog.Level
}

// NewEchoWriter creates an EchoWriter logging at the given level.
func NewEchoWriter(logger *slog.Logger, level slog.Level) *EchoWriter {
	return &EchoWriter{logger: logger, level: level}
}

func (w *EchoWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		s := w.buf.String()
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			break
		}
		w.logger.Log(context.Background(), w.level, s[:i])
		w.buf.Reset()
		w.buf.WriteString(s[i+1:])
	}
	return len(p), nil
}

package logging

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

const redactedPlaceholder = "[redacted]"

// Logger defines the subset of slog functionality the core relies on. The
// interface is intentionally small so applications can provide their own
// implementation for display or redaction policies.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New returns a Logger backed by the provided slog.Logger. Passing nil binds to
// slog.Default().
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

// Discard returns a Logger that drops every notice.
func Discard() Logger {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// OrDiscard returns l, or Discard() when l is nil.
func OrDiscard(l Logger) Logger {
	if l == nil {
		return Discard()
	}
	return l
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *slogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *slogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// Redacted marks attributes that contain sensitive information. Callers must
// avoid logging raw secrets; instead, include this attribute as a reminder that
// the value was intentionally removed.
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder returns the canonical string that represents a redacted value.
func Placeholder() string {
	return redactedPlaceholder
}

// Notice is one entry captured by a Recorder.
type Notice struct {
	Level slog.Level
	Msg   string
	Attrs map[string]string
}

// Recorder is a Logger that keeps notices in memory. It is safe for
// concurrent use.
type Recorder struct {
	mu      *sync.Mutex
	notices *[]Notice
	attrs   []any
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, notices: &[]Notice{}}
}

func (r *Recorder) Debug(_ context.Context, msg string, args ...any) {
	r.record(slog.LevelDebug, msg, args)
}

func (r *Recorder) Info(_ context.Context, msg string, args ...any) {
	r.record(slog.LevelInfo, msg, args)
}

func (r *Recorder) Warn(_ context.Context, msg string, args ...any) {
	r.record(slog.LevelWarn, msg, args)
}

func (r *Recorder) Error(_ context.Context, msg string, args ...any) {
	r.record(slog.LevelError, msg, args)
}

// With returns a Recorder sharing the same notice buffer whose entries carry
// args in addition to their own.
func (r *Recorder) With(args ...any) Logger {
	attrs := make([]any, 0, len(r.attrs)+len(args))
	attrs = append(attrs, r.attrs...)
	attrs = append(attrs, args...)
	return &Recorder{mu: r.mu, notices: r.notices, attrs: attrs}
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(*r.notices))
	copy(out, *r.notices)
	return out
}

// Count returns how many notices were recorded at level.
func (r *Recorder) Count(level slog.Level) int {
	n := 0
	for _, notice := range r.Notices() {
		if notice.Level == level {
			n++
		}
	}
	return n
}

func (r *Recorder) record(level slog.Level, msg string, args []any) {
	all := make([]any, 0, len(r.attrs)+len(args))
	all = append(all, r.attrs...)
	all = append(all, args...)

	// slog.Record applies the same key/value and Attr pairing rules the
	// handlers see.
	rec := slog.NewRecord(time.Time{}, level, msg, 0)
	rec.Add(all...)
	attrs := make(map[string]string, rec.NumAttrs())
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.notices = append(*r.notices, Notice{Level: level, Msg: msg, Attrs: attrs})
}

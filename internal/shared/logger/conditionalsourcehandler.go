package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// sourceHandler attaches the caller location to records whose level is listed,
// leaving the wrapped handler configured with AddSource: false.
type sourceHandler struct {
	next   slog.Handler
	levels map[slog.Level]bool
}

// NewConditionalSourceHandler wraps handler so that only the given levels carry
// a source attribute.
func NewConditionalSourceHandler(handler slog.Handler, levels ...slog.Level) slog.Handler {
	set := make(map[slog.Level]bool, len(levels))
	for _, level := range levels {
		set[level] = true
	}
	return &sourceHandler{next: handler, levels: set}
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.levels[r.Level] {
		// Prefer the PC captured by slog; fall back to walking the stack.
		pc := r.PC
		if pc == 0 {
			var pcs [1]uintptr
			runtime.Callers(3, pcs[:])
			pc = pcs[0]
		}
		frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		}))
	}
	return h.next.Handle(ctx, r)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{next: h.next.WithAttrs(attrs), levels: h.levels}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{next: h.next.WithGroup(name), levels: h.levels}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Package logger provides structured logging for feed-hub.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// Logger is the global logger instance
var Logger *slog.Logger

// GlobalContext is the global ContextLogger instance for feed-scoped context support
var GlobalContext *ContextLogger

// Init initializes a JSON logger with trace context support
func Init() *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	// Wrap with TraceContextHandler to include trace_id/span_id in stdout logs
	handler := NewTraceContextHandler(jsonHandler)

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	GlobalContext = NewContextLogger(Logger)

	Logger.Info("Logger initialized", "level", level.String())

	return Logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// TraceContextHandler decorates records with the active span's trace and
// span IDs when the context carries a recording span.
type TraceContextHandler struct {
	slog.Handler
}

// NewTraceContextHandler wraps a handler with trace context extraction.
func NewTraceContextHandler(inner slog.Handler) *TraceContextHandler {
	return &TraceContextHandler{Handler: inner}
}

// Handle adds trace_id/span_id attributes before delegating.
func (h *TraceContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, record)
}

// WithAttrs preserves the wrapper around the derived handler.
func (h *TraceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup preserves the wrapper around the derived handler.
func (h *TraceContextHandler) WithGroup(name string) slog.Handler {
	return &TraceContextHandler{Handler: h.Handler.WithGroup(name)}
}

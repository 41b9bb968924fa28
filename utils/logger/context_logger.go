package logger

import (
	"context"
	"log/slog"
)

type contextKey string

// Context keys for feed-scoped business context.
const (
	feedNameKey  contextKey = "feed.name"
	itemIDKey    contextKey = "feed.item.id"
	operationKey contextKey = "feed.operation"
	eventKindKey contextKey = "feed.event.kind"
)

// WithFeedName attaches the feed name to the context.
func WithFeedName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, feedNameKey, name)
}

// WithItemID attaches the item ID to the context.
func WithItemID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, itemIDKey, id)
}

// WithOperation attaches the operation name to the context.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey, op)
}

// WithEventKind attaches the event kind to the context.
func WithEventKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, eventKindKey, kind)
}

// ContextLogger enriches log records with feed-scoped values carried in
// the context.
type ContextLogger struct {
	logger *slog.Logger
}

// NewContextLogger creates a ContextLogger wrapping the given logger.
func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext returns a logger carrying every feed-scoped key present in
// the context as an attribute.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger
	for _, key := range []contextKey{feedNameKey, itemIDKey, operationKey, eventKindKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			logger = logger.With(string(key), v)
		}
	}
	return logger
}

// LogDuration logs a completed operation with its duration in milliseconds.
func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, durationMs int64) {
	cl.WithContext(ctx).Info("operation completed",
		"operation", operation,
		"duration_ms", durationMs,
	)
}

// LogError logs a failed operation.
func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).Error("operation failed",
		"operation", operation,
		"error", err,
	)
}

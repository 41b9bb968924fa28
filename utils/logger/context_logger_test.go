package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestContextLogger_WithContext_FeedKeys(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)
	cl := NewContextLogger(logger)

	ctx := context.Background()
	ctx = WithFeedName(ctx, "news")
	ctx = WithItemID(ctx, "item-123")
	ctx = WithOperation(ctx, "publish")
	ctx = WithEventKind(ctx, "edit")

	cl.WithContext(ctx).Info("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	tests := []struct {
		key      string
		expected string
	}{
		{"feed.name", "news"},
		{"feed.item.id", "item-123"},
		{"feed.operation", "publish"},
		{"feed.event.kind", "edit"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := logEntry[tt.key]
			if !ok {
				t.Errorf("expected key %q to be present in log", tt.key)
				return
			}
			if got != tt.expected {
				t.Errorf("expected %q to be %q, got %q", tt.key, tt.expected, got)
			}
		})
	}
}

func TestContextLogger_WithContext_PartialKeys(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)
	cl := NewContextLogger(logger)

	ctx := context.Background()
	ctx = WithFeedName(ctx, "news")

	cl.WithContext(ctx).Info("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if got, ok := logEntry["feed.name"]; !ok || got != "news" {
		t.Errorf("expected feed.name to be 'news', got %v", got)
	}

	// Other keys should not be present
	for _, key := range []string{"feed.item.id", "feed.operation", "feed.event.kind"} {
		if _, ok := logEntry[key]; ok {
			t.Errorf("expected key %q to not be present in log", key)
		}
	}
}

func TestContextLogger_LogDuration(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)
	cl := NewContextLogger(logger)

	ctx := WithFeedName(context.Background(), "news")

	cl.LogDuration(ctx, "publish_item", 15)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if got := logEntry["operation"]; got != "publish_item" {
		t.Errorf("expected operation to be 'publish_item', got %v", got)
	}
	if got := logEntry["duration_ms"]; got != float64(15) {
		t.Errorf("expected duration_ms to be 15, got %v", got)
	}
	if got := logEntry["feed.name"]; got != "news" {
		t.Errorf("expected feed.name to be 'news', got %v", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

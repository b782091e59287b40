package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTerminalHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	ts := time.Date(2026, 1, 15, 10, 30, 45, 123000000, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "server started", 0)
	r.AddAttrs(slog.String("port", "8080"))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "10:30:45.123") {
		t.Errorf("expected timestamp, got: %s", output)
	}
	if !strings.Contains(output, "INF") {
		t.Errorf("expected INF level, got: %s", output)
	}
	if !strings.Contains(output, "server started") {
		t.Errorf("expected message, got: %s", output)
	}
	if !strings.Contains(output, "port=") || !strings.Contains(output, "8080") {
		t.Errorf("expected port attr, got: %s", output)
	}
}

func TestTerminalHandler_Levels(t *testing.T) {
	tests := []struct {
		level    slog.Level
		expected string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		r := slog.NewRecord(time.Now(), tt.level, "msg", 0)
		if err := h.Handle(context.Background(), r); err != nil {
			t.Fatalf("Handle() error: %v", err)
		}
		if !strings.Contains(buf.String(), tt.expected) {
			t.Errorf("level %v: expected label %s, got %s", tt.level, tt.expected, buf.String())
		}
	}
}

func TestTerminalHandler_Enabled(t *testing.T) {
	h := newTerminalHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at WARN level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at WARN level")
	}
}

func TestTerminalHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := base.WithAttrs([]slog.Attr{slog.String("run", "7")}).WithGroup("batch")
	logger := slog.New(h)
	logger.Info("progress", "current", 3)

	output := buf.String()
	if !strings.Contains(output, "run=") {
		t.Errorf("expected inherited attr, got: %s", output)
	}
	if !strings.Contains(output, "batch.current=") {
		t.Errorf("expected grouped attr key, got: %s", output)
	}
}

func TestTerminalHandler_GroupOnlyPrefixesLaterAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := base.WithAttrs([]slog.Attr{slog.String("run", "7")}).
		WithGroup("batch").
		WithAttrs([]slog.Attr{slog.Int("size", 20)})
	logger := slog.New(h)
	logger.Info("progress", "current", 3)

	output := buf.String()
	if strings.Contains(output, "batch.run=") {
		t.Errorf("attr bound before group should not be prefixed, got: %s", output)
	}
	if !strings.Contains(output, "batch.size=") {
		t.Errorf("attr bound after group should be prefixed, got: %s", output)
	}
	if !strings.Contains(output, "batch.current=") {
		t.Errorf("record attr should be prefixed, got: %s", output)
	}
}

func TestTerminalHandler_QuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h)

	logger.Info("msg", "source", "my file.csv")

	if !strings.Contains(buf.String(), `"my file.csv"`) {
		t.Errorf("expected quoted value, got: %s", buf.String())
	}
}

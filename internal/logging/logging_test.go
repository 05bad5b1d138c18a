package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit(t *testing.T) {
	if err := Init(&Config{Level: "debug", Format: "json", Output: "stderr"}); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if Logger() == nil {
		t.Fatal("Logger() returned nil after Init")
	}

	// nil config falls back to defaults.
	if err := Init(nil); err != nil {
		t.Fatalf("Init(nil) returned error: %v", err)
	}
}

func TestWithComponent(t *testing.T) {
	if WithComponent("gateway") == nil {
		t.Fatal("WithComponent returned nil")
	}
}

func TestContextDeliveryID(t *testing.T) {
	ctx := ContextWithDeliveryID(context.Background(), "delivery-42")
	if got := ctx.Value(deliveryIDKey); got != "delivery-42" {
		t.Errorf("delivery id in context = %v", got)
	}
	if WithContext(ctx) == nil {
		t.Fatal("WithContext returned nil")
	}
}

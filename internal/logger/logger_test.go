package logger

import (
	"context"
	"testing"
)

func TestNewDefaultsToInfo(t *testing.T) {
	// Invalid levels must not panic and must still produce a usable logger.
	log := New("not-a-level", "json")
	log.Info(context.Background(), "hello %s", "world")
	log.Debug(context.Background(), "dropped")
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Errorf("RequestID(empty ctx) = %q, want empty", got)
	}

	ctx = WithRequestID(ctx, "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Errorf("RequestID = %q, want req-123", got)
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error(context.Background(), "should not appear: %v", 42)
}

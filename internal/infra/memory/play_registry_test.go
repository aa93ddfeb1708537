package memory

import (
	"context"
	"testing"
)

func TestPlayRegistryLifecycle(t *testing.T) {
	ctx := context.Background()
	registry := NewPlayRegistry()

	_ = registry.Register(ctx, "default", "p1")
	_ = registry.Register(ctx, "default", "p2")
	_ = registry.Register(ctx, "other", "p3")

	if n, _ := registry.Active(ctx, "default"); n != 2 {
		t.Fatalf("expected 2 active plays, got %d", n)
	}

	_ = registry.Unregister(ctx, "default", "p1")
	_ = registry.Unregister(ctx, "default", "p2")
	if n, _ := registry.Active(ctx, "default"); n != 0 {
		t.Fatalf("expected no active plays, got %d", n)
	}
	if _, ok := registry.plays["default"]; ok {
		t.Fatalf("expected empty slug to be dropped")
	}
	if n, _ := registry.Active(ctx, "other"); n != 1 {
		t.Fatalf("expected other quiz untouched, got %d", n)
	}
}

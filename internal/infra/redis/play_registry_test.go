package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestPlayRegistrySetsAndClearsMembers(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	registry := NewPlayRegistry(newClient(mr), time.Minute)

	if err := registry.Register(ctx, "default", "p1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(ctx, "default", "p2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !mr.Exists("quiz:plays:default") {
		t.Fatalf("expected redis key to be set")
	}
	if n, err := registry.Active(ctx, "default"); err != nil || n != 2 {
		t.Fatalf("expected 2 active plays, got %d (%v)", n, err)
	}

	_ = registry.Unregister(ctx, "default", "p1")
	_ = registry.Unregister(ctx, "default", "p2")
	if mr.Exists("quiz:plays:default") {
		t.Fatalf("expected redis key to be removed once empty")
	}
}

func TestPlayRegistryKeepsHeartbeatingPlays(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	registry := NewPlayRegistry(newClient(mr), 10*time.Minute)
	now := time.Now()
	registry.now = func() time.Time { return now }
	advance := func(d time.Duration) {
		now = now.Add(d)
		mr.FastForward(d)
	}

	if err := registry.Register(ctx, "default", "live"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(ctx, "default", "crashed"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// only "live" keeps refreshing, well past the ttl
	for i := 0; i < 4; i++ {
		advance(3 * time.Minute)
		if err := registry.Register(ctx, "default", "live"); err != nil {
			t.Fatalf("heartbeat: %v", err)
		}
	}

	if n, err := registry.Active(ctx, "default"); err != nil || n != 1 {
		t.Fatalf("expected only the heartbeating play after 12m, got %d (%v)", n, err)
	}

	advance(11 * time.Minute)
	if n, err := registry.Active(ctx, "default"); err != nil || n != 0 {
		t.Fatalf("expected no plays once heartbeats stop, got %d (%v)", n, err)
	}
}

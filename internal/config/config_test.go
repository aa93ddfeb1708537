package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.Endpoint != "/Uw5CrX" || cfg.Server.Port != "8080" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "quiz:\n  duration: 45s\n  dir: ./quizzes\nredis:\n  addr: localhost:6379\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.Duration != "45s" || cfg.Quiz.Dir != "./quizzes" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("expected overrides, got %+v", cfg)
	}
	if cfg.Quiz.Endpoint != "/Uw5CrX" {
		t.Fatalf("expected untouched default endpoint, got %q", cfg.Quiz.Endpoint)
	}
}

func TestDurations(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for invalid input, got %v", got)
	}
	if got := Seconds("2m", 1); got != 120 {
		t.Fatalf("expected 120 seconds, got %d", got)
	}
	if got := Seconds("0s", 120); got != 0 {
		t.Fatalf("expected zero to be honored, got %d", got)
	}
	if got := Seconds("-5s", 120); got != 120 {
		t.Fatalf("expected fallback for negative, got %d", got)
	}
}

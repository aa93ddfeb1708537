package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Client struct {
		BaseURL  string `yaml:"base_url"`
		Endpoint string `yaml:"endpoint"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"client"`
	Quiz struct {
		Slug     string `yaml:"slug"`
		Endpoint string `yaml:"endpoint"`
		Duration string `yaml:"duration"`
		Tick     string `yaml:"tick"`
		TTL      string `yaml:"ttl"`
		Dir      string `yaml:"dir"`
	} `yaml:"quiz"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Client.BaseURL = "http://localhost:8080"
	cfg.Client.Endpoint = "/Uw5CrX"
	cfg.Client.Timeout = "10s"
	cfg.Quiz.Slug = "default"
	cfg.Quiz.Endpoint = "/Uw5CrX"
	cfg.Quiz.Duration = "120s"
	cfg.Quiz.Tick = "1s"
	cfg.Quiz.TTL = "10m"
	cfg.Redis.TTL = "10m"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Seconds parses a duration string into whole seconds, falling back when empty or invalid.
// "0s" is honored so a zero-length countdown can be configured.
func Seconds(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return int(d / time.Second)
}

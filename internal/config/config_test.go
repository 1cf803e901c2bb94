package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8082" {
		t.Fatalf("port: %s", cfg.Port)
	}
	if cfg.StoreBackend != "file" {
		t.Fatalf("backend: %s", cfg.StoreBackend)
	}
	if cfg.SyncInterval != 30*time.Second {
		t.Fatalf("sync interval: %s", cfg.SyncInterval)
	}
	if cfg.ChatRequestsPerMinute != 60 {
		t.Fatalf("chat requests per minute: %d", cfg.ChatRequestsPerMinute)
	}

	cfg.FileStorePath = t.TempDir() + "/bills.json"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BILLBOOK_BACKEND", "sqlite")
	t.Setenv("ASSISTANT_MAX_TOKENS", "512")
	t.Setenv("STATS_CACHE_TTL", "2m")
	t.Setenv("CHAT_REQUESTS_PER_MINUTE", "10")

	cfg := Load()
	if cfg.Port != "9000" || cfg.StoreBackend != "sqlite" {
		t.Fatalf("env override failed: %+v", cfg)
	}
	if cfg.AssistantMaxTokens != 512 {
		t.Fatalf("max tokens: %d", cfg.AssistantMaxTokens)
	}
	if cfg.StatsCacheTTL != 2*time.Minute {
		t.Fatalf("cache ttl: %s", cfg.StatsCacheTTL)
	}
	if cfg.ChatRequestsPerMinute != 10 {
		t.Fatalf("chat requests per minute: %d", cfg.ChatRequestsPerMinute)
	}
	if cfg.StorePath() != cfg.SQLiteDBPath {
		t.Fatalf("store path: %s", cfg.StorePath())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = "nope" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"bad backend", func(c *Config) { c.StoreBackend = "redis" }, "invalid store backend"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "invalid AMQP URL scheme"},
		{"empty amqp queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }, "queue name cannot be empty"},
		{"bad temperature", func(c *Config) { c.AssistantTemperature = 3 }, "temperature"},
		{"bad max tokens", func(c *Config) { c.AssistantMaxTokens = 0 }, "max tokens"},
		{"bad chat rate", func(c *Config) { c.ChatRequestsPerMinute = 0 }, "chat requests per minute"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			cfg.FileStorePath = t.TempDir() + "/bills.json"
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

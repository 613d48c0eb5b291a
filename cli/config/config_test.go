package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	yaml := `token: abc
base_url: https://pesto.example.com
timeout: 30s
format: yaml
log_level: debug
retries: 2

cache:
  backend: redis
  redis_url: redis://localhost:6379/0
  key: team:runtimes
  ttl: 15m

history:
  backend: s3
  dataset: runs
  bucket: my-bucket
  prefix: pesto
  region: ap-southeast-1
  endpoint: https://minio.local
  s3_path_style: true

notify:
  webhook_url: https://hooks.example.com/pesto
  webhook_headers:
    X-Signature: s3cr3t
  redis_url: redis://localhost:6379/1
  redis_channel: ci:runs
  retries: 1
`
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Token != "abc" || cfg.BaseURL != "https://pesto.example.com" {
		t.Errorf("token/base_url = %q %q", cfg.Token, cfg.BaseURL)
	}
	if cfg.Timeout.Duration != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout.Duration)
	}
	if cfg.Format != "yaml" || cfg.LogLevel != "debug" || cfg.Retries != 2 {
		t.Errorf("format/log_level/retries = %q %q %d", cfg.Format, cfg.LogLevel, cfg.Retries)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.Key != "team:runtimes" || cfg.Cache.TTL.Duration != 15*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	h := cfg.History
	if h.Backend != HistoryS3 || h.Bucket != "my-bucket" || h.Prefix != "pesto" || !h.S3PathStyle {
		t.Errorf("History = %+v", h)
	}
	n := cfg.Notify
	if n.WebhookURL != "https://hooks.example.com/pesto" || n.WebhookHeaders["X-Signature"] != "s3cr3t" {
		t.Errorf("Notify webhook = %+v", n)
	}
	if n.RedisChannel != "ci:runs" || n.Retries != 1 {
		t.Errorf("Notify redis = %+v", n)
	}
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "" || cfg.Timeout.Duration != 0 {
		t.Errorf("empty config = %+v", cfg)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("PESTO_TEST_TOKEN", "from-env")

	cfg, err := Load(writeConfig(t, "token: ${PESTO_TEST_TOKEN}\nbase_url: ${PESTO_TEST_UNSET:-https://fallback}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "from-env" {
		t.Errorf("Token = %q, want from-env", cfg.Token)
	}
	if cfg.BaseURL != "https://fallback" {
		t.Errorf("BaseURL = %q, want https://fallback", cfg.BaseURL)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad yaml", "token: [unclosed", "invalid YAML"},
		{"bad duration", "timeout: soon", "invalid duration"},
		{"unknown cache backend", "cache:\n  backend: memcached", "cache.backend"},
		{"redis without url", "cache:\n  backend: redis", "redis_url"},
		{"s3 without bucket", "history:\n  backend: s3", "history.bucket"},
		{"unknown history backend", "history:\n  backend: gcs", "history.backend"},
		{"negative retries", "retries: -1", "retries"},
		{"negative notify retries", "notify:\n  retries: -1", "notify.retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOptional(t *testing.T) {
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := LoadOptional("")
	if err != nil {
		t.Fatalf("LoadOptional(default missing): %v", err)
	}
	if cfg == nil || cfg.Token != "" {
		t.Errorf("cfg = %+v, want empty", cfg)
	}

	if _, err := LoadOptional(filepath.Join(t.TempDir(), "explicit.yaml")); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadOptional(explicit missing) error = %v, want ErrNotFound", err)
	}
}

func TestDefaultPath_Env(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/pesto.yaml")
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if got != "/etc/pesto.yaml" {
		t.Errorf("DefaultPath = %q", got)
	}
}

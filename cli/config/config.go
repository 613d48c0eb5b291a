package config

import (
	"fmt"
	"time"
)

// Config represents a pesto config.yaml file.
// All values are optional and act as defaults for CLI flags.
// CLI flags and PESTO_* environment variables override config values.
type Config struct {
	Token    string        `yaml:"token"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  Duration      `yaml:"timeout"`
	Format   string        `yaml:"format"`
	LogLevel string        `yaml:"log_level"`
	Retries  int           `yaml:"retries"`
	Cache    CacheConfig   `yaml:"cache"`
	History  HistoryConfig `yaml:"history"`
	Notify   NotifyConfig  `yaml:"notify"`
}

// CacheConfig holds runtime catalog cache settings.
type CacheConfig struct {
	// Backend is "file" (default), "redis", "memory" or "none".
	Backend  string   `yaml:"backend"`
	Path     string   `yaml:"path"`
	RedisURL string   `yaml:"redis_url"`
	Key      string   `yaml:"key"`
	TTL      Duration `yaml:"ttl"`
}

// HistoryConfig holds execution archive settings.
type HistoryConfig struct {
	// Backend is "fs" (default), "s3" or "none".
	Backend     string `yaml:"backend"`
	Dataset     string `yaml:"dataset"`
	Path        string `yaml:"path"`
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// NotifyConfig holds execution event sinks. Each sink is enabled by its URL.
type NotifyConfig struct {
	WebhookURL     string            `yaml:"webhook_url"`
	WebhookHeaders map[string]string `yaml:"webhook_headers"`
	RedisURL       string            `yaml:"redis_url"`
	RedisChannel   string            `yaml:"redis_channel"`
	Retries        int               `yaml:"retries"`
}

// Cache backends.
const (
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// History backends.
const (
	HistoryFS   = "fs"
	HistoryS3   = "s3"
	HistoryNone = "none"
)

// Validate checks enumerated values and numeric ranges.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheFile, CacheRedis, CacheMemory, CacheNone:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache.redis_url is required for the redis backend")
	}

	switch c.History.Backend {
	case "", HistoryFS, HistoryNone:
	case HistoryS3:
		if c.History.Bucket == "" && c.History.Path == "" {
			return fmt.Errorf("history.bucket (or path as bucket/prefix) is required for the s3 backend")
		}
	default:
		return fmt.Errorf("history.backend: unknown backend %q", c.History.Backend)
	}

	if c.Notify.Retries < 0 {
		return fmt.Errorf("notify.retries must be >= 0, got %d", c.Notify.Retries)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0, got %d", c.Retries)
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", c.Timeout.Duration)
	}
	return nil
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML writes the duration back as a string.
func (d Duration) MarshalYAML() (any, error) {
	if d.Duration == 0 {
		return "", nil
	}
	return d.String(), nil
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/teknologi-umum/pesto"
	"github.com/teknologi-umum/pesto/catalog"
	"github.com/teknologi-umum/pesto/cli/config"
	"github.com/teknologi-umum/pesto/cli/render"
	"github.com/teknologi-umum/pesto/history"
	"github.com/teknologi-umum/pesto/log"
	"github.com/teknologi-umum/pesto/metrics"
	"github.com/teknologi-umum/pesto/notify"
	notifyredis "github.com/teknologi-umum/pesto/notify/redis"
	"github.com/teknologi-umum/pesto/notify/webhook"
)

// session holds everything a command needs to talk to the API.
type session struct {
	cfg     *config.Config
	log     *log.Logger
	metrics *metrics.Collector
	client  *pesto.Client
	closers []func() error
}

// loadConfig reads the config file and applies flag and environment
// overrides on top of it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadOptional(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("token") {
		cfg.Token = c.String("token")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("timeout") {
		cfg.Timeout.Duration = c.Duration("timeout")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = pesto.DefaultBaseURL
	}
	return cfg, nil
}

// newSession loads configuration and the logger. Call connect before
// using the client.
func newSession(c *cli.Context) (*session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}

	logger, err := log.New(errWriter(c), cfg.LogLevel)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}

	return &session{
		cfg:     cfg,
		log:     logger,
		metrics: metrics.NewCollector(cfg.BaseURL),
	}, nil
}

// connect creates the API client. A token is required.
func (s *session) connect() error {
	if s.cfg.Token == "" {
		return cli.Exit(
			fmt.Sprintf("no API token: pass --token, set %s, or add token to the config file", EnvToken),
			exitUsage,
		)
	}

	client, err := pesto.New(pesto.Config{
		Token:   s.cfg.Token,
		BaseURL: s.cfg.BaseURL,
		Timeout: s.cfg.Timeout.Duration,
		Logger:  s.log.Named("client").Zap(),
		Metrics: s.metrics,
	})
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	s.client = client
	s.closers = append(s.closers, client.Close)
	return nil
}

// Close releases the client and any opened stores.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.log.Warn("close failed", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

func (s *session) renderer(c *cli.Context) (*render.Renderer, error) {
	r, err := render.NewRenderer(c, s.cfg.Format)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}
	return r, nil
}

// catalogCache builds the runtime list cache over the configured store.
func (s *session) catalogCache() (*catalog.Cache, error) {
	cc := s.cfg.Cache
	var store catalog.Store

	switch cc.Backend {
	case "", config.CacheFile:
		path := cc.Path
		if path == "" {
			path = config.DefaultCachePath()
		}
		store = catalog.NewFileStore(path)
	case config.CacheRedis:
		rs, err := catalog.NewRedisStore(catalog.RedisConfig{
			URL: cc.RedisURL,
			Key: cc.Key,
			TTL: cc.TTL.Duration,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, rs.Close)
		store = rs
	case config.CacheMemory, config.CacheNone:
		store = catalog.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cc.Backend)
	}

	ttl := cc.TTL.Duration
	if cc.Backend == config.CacheNone {
		// Entries never qualify, so every Get hits the API.
		ttl = 1
	}
	return catalog.NewCache(s.client, catalog.Config{
		Store:   store,
		TTL:     ttl,
		BaseURL: s.client.BaseURL(),
		Logger:  s.log.Named("catalog").Zap(),
	}), nil
}

// recorder opens the execution archive. It returns nil when history is
// disabled.
func (s *session) recorder(ctx context.Context) (*history.Recorder, error) {
	hc := s.cfg.History
	switch hc.Backend {
	case config.HistoryNone:
		return nil, nil
	case "", config.HistoryFS:
		root := hc.Path
		if root == "" {
			root = config.DefaultHistoryPath()
		}
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create history directory: %w", err)
		}
		return history.NewFSRecorder(hc.Dataset, root)
	case config.HistoryS3:
		bucket, prefix := hc.Bucket, hc.Prefix
		if bucket == "" {
			bucket, prefix = history.ParseS3Path(hc.Path)
		}
		return history.NewS3Recorder(ctx, hc.Dataset, history.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       hc.Region,
			Endpoint:     hc.Endpoint,
			UsePathStyle: hc.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown history backend %q", hc.Backend)
	}
}

// notifier builds the configured event sinks. It returns nil when none is
// configured.
func (s *session) notifier() (notify.Notifier, error) {
	nc := s.cfg.Notify
	var sinks notify.Multi

	if nc.WebhookURL != "" {
		n, err := webhook.New(webhook.Config{
			URL:     nc.WebhookURL,
			Headers: nc.WebhookHeaders,
			Retries: nc.Retries,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, n)
	}
	if nc.RedisURL != "" {
		n, err := notifyredis.New(notifyredis.Config{
			URL:     nc.RedisURL,
			Channel: nc.RedisChannel,
			Retries: nc.Retries,
		})
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, n)
	}

	if len(sinks) == 0 {
		return nil, nil
	}
	return sinks, nil
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
}

func errWriter(c *cli.Context) io.Writer {
	if c.App != nil && c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

func inReader(c *cli.Context) io.Reader {
	if c.App != nil && c.App.Reader != nil {
		return c.App.Reader
	}
	return os.Stdin
}

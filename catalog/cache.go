package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/teknologi-umum/pesto/types"
)

// DefaultTTL is how long a cached list is served before it is fetched again.
const DefaultTTL = time.Hour

// Lister fetches the runtime list from the API. *pesto.Client satisfies it.
type Lister interface {
	ListRuntimes(ctx context.Context) (types.RuntimeCatalog, error)
}

// Config configures a Cache.
type Config struct {
	// Store holds the cached entry (default: in-memory).
	Store Store
	// TTL bounds the age of a served entry (default 1h).
	TTL time.Duration
	// BaseURL tags saved entries; entries from another API are ignored.
	BaseURL string
	// Logger receives store failures (default no-op).
	Logger *zap.Logger
}

// Cache serves the runtime list from a Store, falling back to the API when
// the entry is missing, stale or from another base URL. Store failures are
// logged and never hide a successful fetch.
type Cache struct {
	lister Lister
	config Config
	now    func() time.Time
}

// NewCache creates a cache in front of lister.
func NewCache(lister Lister, cfg Config) *Cache {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Cache{lister: lister, config: cfg, now: time.Now}
}

// Get returns the cached list when fresh, otherwise fetches it.
func (c *Cache) Get(ctx context.Context) (Entry, bool, error) {
	e, err := c.config.Store.Load(ctx)
	switch {
	case err == nil && c.usable(e):
		c.config.Logger.Debug("catalog cache hit",
			zap.Time("fetched_at", e.FetchedAt),
			zap.Int("runtimes", len(e.Runtimes)),
		)
		return e, true, nil
	case err != nil && !errors.Is(err, ErrMiss):
		c.config.Logger.Warn("catalog cache load failed", zap.Error(err))
	}

	e, err = c.Refresh(ctx)
	return e, false, err
}

// Refresh fetches the list from the API and saves it.
func (c *Cache) Refresh(ctx context.Context) (Entry, error) {
	rc, err := c.lister.ListRuntimes(ctx)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		BaseURL:   c.config.BaseURL,
		FetchedAt: c.now().UTC(),
		Runtimes:  rc.Runtimes,
	}
	if err := c.config.Store.Save(ctx, e); err != nil {
		c.config.Logger.Warn("catalog cache save failed", zap.Error(err))
	}
	return e, nil
}

func (c *Cache) usable(e Entry) bool {
	if e.BaseURL != c.config.BaseURL {
		return false
	}
	return c.now().Sub(e.FetchedAt) < c.config.TTL
}

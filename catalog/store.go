// Package catalog caches the runtime list and resolves user-supplied
// language names to runtimes.
//
// Entries are encoded with msgpack and kept in memory, in a local file, or
// in Redis so several machines can share one list.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/teknologi-umum/pesto/iox"
	"github.com/teknologi-umum/pesto/types"
)

// ErrMiss is returned by Store.Load when no entry is stored.
var ErrMiss = errors.New("catalog: cache miss")

// Entry is one cached runtime list.
type Entry struct {
	// BaseURL is the API the list was fetched from.
	BaseURL   string          `msgpack:"base_url"`
	FetchedAt time.Time       `msgpack:"fetched_at"`
	Runtimes  []types.Runtime `msgpack:"runtimes"`
}

// Catalog returns the entry as a RuntimeCatalog.
func (e Entry) Catalog() types.RuntimeCatalog {
	return types.RuntimeCatalog{Runtimes: e.Runtimes}
}

// Store persists a single Entry.
type Store interface {
	Load(ctx context.Context) (Entry, error)
	Save(ctx context.Context, e Entry) error
}

func encode(e Entry) ([]byte, error) {
	data, err := msgpack.Marshal(&e)
	if err != nil {
		return nil, fmt.Errorf("catalog: encode entry: %w", err)
	}
	return data, nil
}

func decode(data []byte) (Entry, error) {
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("catalog: decode entry: %w", err)
	}
	return e, nil
}

// MemoryStore keeps the entry in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	entry *Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored entry or ErrMiss.
func (s *MemoryStore) Load(_ context.Context) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == nil {
		return Entry{}, ErrMiss
	}
	e := *s.entry
	e.Runtimes = append([]types.Runtime(nil), e.Runtimes...)
	return e, nil
}

// Save replaces the stored entry.
func (s *MemoryStore) Save(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Runtimes = append([]types.Runtime(nil), e.Runtimes...)
	s.entry = &e
	return nil
}

// FileStore keeps the entry in a msgpack file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path. The file is
// created on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the file. A missing file is ErrMiss.
func (s *FileStore) Load(_ context.Context) (Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("catalog: read %s: %w", s.path, err)
	}
	return decode(data)
}

// Save writes the file atomically, creating its directory.
func (s *FileStore) Save(_ context.Context, e Entry) error {
	data, err := encode(e)
	if err != nil {
		return err
	}
	if err := iox.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("catalog: write %s: %w", s.path, err)
	}
	return nil
}

// DefaultRedisKey is the default key holding the entry.
const DefaultRedisKey = "pesto:runtimes"

// DefaultRedisTimeout is the default per-command timeout.
const DefaultRedisTimeout = 5 * time.Second

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	// URL is the Redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// Key is the key holding the entry (default: pesto:runtimes).
	Key string
	// TTL expires the key server-side. Zero keeps it forever.
	TTL time.Duration
	// Timeout is the per-command timeout (default 5s).
	Timeout time.Duration
}

// RedisStore keeps the entry under one Redis key.
type RedisStore struct {
	config RedisConfig
	client *goredis.Client
}

// NewRedisStore creates a Redis-backed store from the given config.
// Returns an error if the URL is empty or invalid.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.URL == "" {
		return nil, errors.New("catalog: redis store requires a URL")
	}

	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("catalog: invalid redis URL: %w", err)
	}

	if cfg.Key == "" {
		cfg.Key = DefaultRedisKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRedisTimeout
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("catalog: ttl must be >= 0, got %s", cfg.TTL)
	}

	return &RedisStore{
		config: cfg,
		client: goredis.NewClient(opts),
	}, nil
}

// Load fetches the key. A missing key is ErrMiss.
func (s *RedisStore) Load(ctx context.Context) (Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.config.Key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("catalog: redis get %s: %w", s.config.Key, err)
	}
	return decode(data)
}

// Save sets the key with the configured TTL.
func (s *RedisStore) Save(ctx context.Context, e Entry) error {
	data, err := encode(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.config.Key, data, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("catalog: redis set %s: %w", s.config.Key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Verify implementations satisfy the Store interface.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*RedisStore)(nil)
)

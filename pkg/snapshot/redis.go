package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mnemonic-no/act-utils/pkg/datamodel"
	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

// DefaultRedisKey is the key used when RedisOptions.Key is empty.
const DefaultRedisKey = "act-datamodel:snapshot"

// RedisClient is the subset of *redis.Client used by RedisStore.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	URL string // redis://[:password@]host:port/db
	Key string
}

// RedisStore keeps the snapshot under a single Redis key without expiry.
type RedisStore struct {
	client RedisClient
	key    string
	addr   string
	now    func() time.Time
}

// NewRedisStore connects lazily to the server in opts.URL.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse redis URL")
	}
	s := NewRedisStoreWithClient(redis.NewClient(ro), opts.Key)
	s.addr = fmt.Sprintf("redis://%s/%d", ro.Addr, ro.DB)
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client RedisClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key, addr: "redis", now: time.Now}
}

// Load fetches the snapshot key.
func (s *RedisStore) Load(ctx context.Context) (*Record, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeSnapshot, err, "redis GET %s", s.key)
	}
	return Decode(data)
}

// Save overwrites the snapshot key.
func (s *RedisStore) Save(ctx context.Context, snap datamodel.Snapshot) error {
	data, err := Encode(snap, s.now())
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeSnapshot, err, "redis SET %s", s.key)
	}
	return nil
}

// Clear deletes the snapshot key.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeSnapshot, err, "redis DEL %s", s.key)
	}
	return nil
}

// Location returns the server address and key.
func (s *RedisStore) Location() string { return s.addr + " " + s.key }

// Close closes the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)

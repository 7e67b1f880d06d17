package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

// fakeRedis is an in-memory RedisClient.
type fakeRedis struct {
	data   map[string]string
	ttl    map[string]time.Duration
	err    error
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttl[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	s := NewRedisStoreWithClient(fake, "")

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, sample))
	assert.Contains(t, fake.data, DefaultRedisKey)
	assert.Zero(t, fake.ttl[DefaultRedisKey], "snapshot never expires")

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample, rec.Snapshot)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Close())
	assert.True(t, fake.closed)
}

func TestRedisStoreCustomKey(t *testing.T) {
	fake := newFakeRedis()
	s := NewRedisStoreWithClient(fake, "team:model")
	require.NoError(t, s.Save(context.Background(), sample))
	assert.Contains(t, fake.data, "team:model")
	assert.Contains(t, s.Location(), "team:model")
}

func TestRedisStoreErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.err = errors.New("connection refused")
	s := NewRedisStoreWithClient(fake, "")

	_, err := s.Load(ctx)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeSnapshot))
	assert.NotErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.Error(t, s.Save(ctx, sample))
	assert.Error(t, s.Clear(ctx))
}

func TestRedisStoreCorrupt(t *testing.T) {
	fake := newFakeRedis()
	fake.data[DefaultRedisKey] = "not json"
	_, err := NewRedisStoreWithClient(fake, "").Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestNewRedisStore(t *testing.T) {
	s, err := NewRedisStore(RedisOptions{URL: "redis://localhost:6379/2"})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "redis://localhost:6379/2 "+DefaultRedisKey, s.Location())

	_, err = NewRedisStore(RedisOptions{URL: "http://nope"})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))
}

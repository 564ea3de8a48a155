// Package cache memoizes report responses. Entries are keyed on the store
// version, so a reload never serves stale numbers and nothing needs to be
// invalidated.
package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "salesboard:"

// ErrMiss is returned by Backend.Get for an absent key.
var ErrMiss = errors.New("cache miss")

type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
}

type RedisBackend struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{Client: client, TTL: ttl}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := b.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return val, err
}

func (b *RedisBackend) Set(ctx context.Context, key string, val []byte) error {
	return b.Client.Set(ctx, key, val, b.TTL).Err()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte) error   { return nil }

// Reports collapses concurrent identical requests into one computation and
// keeps the encoded result in a backend.
type Reports struct {
	backend Backend
	group   singleflight.Group
}

func New(backend Backend) *Reports {
	if backend == nil {
		backend = Noop{}
	}
	return &Reports{backend: backend}
}

// Key builds "salesboard:<report>:<version>:<hash of params>".
func Key(report, version string, params ...string) string {
	h := xxh3.HashString(strings.Join(params, "\x00"))
	return keyPrefix + report + ":" + version + ":" + strconv.FormatUint(h, 16)
}

// Fetch returns the cached value under key or computes, stores and returns
// it. Backend failures are logged and fall through to compute.
func Fetch[T any](ctx context.Context, r *Reports, key string, compute func() T) T {
	v, _, _ := r.group.Do(key, func() (any, error) {
		if raw, err := r.backend.Get(ctx, key); err == nil {
			var cached T
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			log.Warnf("cache: discarding undecodable entry %s", key)
		} else if !errors.Is(err, ErrMiss) {
			log.Warnf("cache: get %s: %v", key, err)
		}

		fresh := compute()
		raw, err := json.Marshal(fresh)
		if err != nil {
			log.Warnf("cache: encode %s: %v", key, err)
			return fresh, nil
		}
		if err := r.backend.Set(ctx, key, raw); err != nil {
			log.Warnf("cache: set %s: %v", key, err)
		}
		return fresh, nil
	})
	return v.(T)
}

// Package cache stores rendered stickers keyed by their input image and
// settings, so repeated uploads of the same image skip the pipeline.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ironsheep/sticker-tools-mcp/internal/sticker"
)

// KeyPrefix namespaces sticker entries in a shared Redis database.
const KeyPrefix = "sticker:"

// Store is a content-addressed store of encoded PNG stickers.
//
// Get reports a miss as (nil, false, nil). Errors are for transport failures
// only; callers treat them as misses.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, png []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Key derives the cache key for an input image rendered with cfg: the MD5 of
// the input bytes followed by the canonical JSON of the config.
func Key(input []byte, cfg sticker.Config) (string, error) {
	settings, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	hash := md5.New()
	hash.Write(input)
	hash.Write(settings)
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// RedisStore keeps stickers in Redis with a fixed TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisStore creates a store. No connection is made until first use.
func NewRedisStore(opts RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	return &RedisStore{
		client: client,
		ttl:    opts.TTL,
	}
}

// Ping checks that the Redis server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get returns the PNG stored under key. A missing key is a miss, not an error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}
	return data, true, nil
}

// Set stores png under key with the store TTL.
func (s *RedisStore) Set(ctx context.Context, key string, png []byte) error {
	if err := s.client.Set(ctx, KeyPrefix+key, png, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// NopStore never stores anything. It is used when Redis is disabled or
// unreachable.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopStore) Set(context.Context, string, []byte) error         { return nil }
func (NopStore) Ping(context.Context) error                        { return nil }
func (NopStore) Close() error                                      { return nil }

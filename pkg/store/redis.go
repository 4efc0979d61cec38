package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/srodi/cgstats/pkg/types"
)

// DefaultRedisKey holds the snapshot when no key is configured.
const DefaultRedisKey = "cgstats:snapshot"

// RedisOptions configures the connection used by RedisStore.
type RedisOptions struct {
	Address  string
	Username string
	Password string
	DB       int
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Address, err)
	}
	return client, nil
}

// RedisStore keeps the snapshot under a single redis key.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore returns a store writing to key (DefaultRedisKey when empty).
func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// Load fetches the snapshot. A missing key yields ErrNoSnapshot.
func (s *RedisStore) Load(ctx context.Context) (*types.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("redis get %s: %w", s.key, ErrNoSnapshot)
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("redis key %s: %w", s.key, err)
	}
	return snap, nil
}

// Save overwrites the key without expiry.
func (s *RedisStore) Save(ctx context.Context, snap *types.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return &SaveError{Location: "redis key " + s.key, Err: err}
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return &SaveError{Location: "redis key " + s.key, Err: err}
	}
	return nil
}

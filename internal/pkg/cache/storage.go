package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

// Storage keeps one opaque blob per session key for as long as the session
// lives. Load returns models.ErrBlobNotFound when nothing is stored.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Remove(ctx context.Context, key string) error
}

// MemoryStorage keeps blobs in process memory, so a session lasts as long as
// the process or the lifetime, whichever ends first.
type MemoryStorage struct {
	blobs *gocache.Cache
}

func NewMemoryStorage(lifetime time.Duration) *MemoryStorage {
	if lifetime <= 0 {
		lifetime = gocache.NoExpiration
	}
	return &MemoryStorage{blobs: gocache.New(lifetime, 10*time.Minute)}
}

func (m *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	v, ok := m.blobs.Get(key)
	if !ok {
		return nil, models.ErrBlobNotFound
	}
	blob, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected blob type %T for %s", v, key)
	}
	return blob, nil
}

func (m *MemoryStorage) Save(_ context.Context, key string, blob []byte) error {
	m.blobs.Set(key, append([]byte(nil), blob...), gocache.DefaultExpiration)
	return nil
}

func (m *MemoryStorage) Remove(_ context.Context, key string) error {
	m.blobs.Delete(key)
	return nil
}

// RedisStorage shares session blobs between server instances.
type RedisStorage struct {
	client   *redis.Client
	prefix   string
	lifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func NewRedisStorage(client *redis.Client, prefix string, lifetime time.Duration) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix, lifetime: lifetime}
}

func (r *RedisStorage) key(k string) string {
	return r.prefix + k
}

func (r *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	blob, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session blob: %w", err)
	}
	return blob, nil
}

func (r *RedisStorage) Save(ctx context.Context, key string, blob []byte) error {
	if err := r.client.Set(ctx, r.key(key), blob, r.lifetime).Err(); err != nil {
		return fmt.Errorf("saving session blob: %w", err)
	}
	return nil
}

func (r *RedisStorage) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("removing session blob: %w", err)
	}
	return nil
}

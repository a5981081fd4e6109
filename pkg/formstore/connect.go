package formstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	ConnectionURL  string        `env:"URL" envDefault:"redis://localhost:6379/0"`
	KeyPrefix      string        `env:"KEY_PREFIX" envDefault:"formrules:"`
	RetryAttempts  int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

// Connect dials Redis and pings it, retrying up to RetryAttempts times.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, errors.Join(ErrRedisNotReady, lastErr)
}

// Healthcheck returns a check that pings the client.
func Healthcheck(client interface {
	Ping(ctx context.Context) *redis.StatusCmd
}) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Config selects a backend and carries the settings of each one.
type Config struct {
	Backend string       `env:"STORE" envDefault:"memory"`
	Redis   RedisConfig  `envPrefix:"REDIS_"`
	SQLite  SQLiteConfig `envPrefix:"SQLITE_"`
}

// NewStore opens the backend named by cfg.Backend: "redis", "sqlite" or
// "memory". The returned close function releases the connection.
func NewStore(ctx context.Context, cfg Config) (Store, func() error, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), func() error { return nil }, nil
	case "redis":
		client, err := Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, WithKeyPrefix(cfg.Redis.KeyPrefix)), client.Close, nil
	case "sqlite":
		store, err := OpenSQLite(ctx, cfg.SQLite)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

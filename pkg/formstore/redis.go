package formstore

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key written by RedisStore.
const DefaultKeyPrefix = "formrules:"

// RedisClient is the subset of the go-redis API RedisStore needs.
// *redis.Client and *redis.ClusterClient satisfy it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...any) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...any) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisStore keeps each definition as a JSON blob under <prefix>form:<name>
// and the set of names under <prefix>forms.
type RedisStore struct {
	client RedisClient
	prefix string
	now    func() time.Time
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix replaces DefaultKeyPrefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// NewRedisStore creates a store on top of client.
func NewRedisStore(client RedisClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: DefaultKeyPrefix, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) formKey(name string) string { return s.prefix + "form:" + name }
func (s *RedisStore) indexKey() string          { return s.prefix + "forms" }

func (s *RedisStore) Save(ctx context.Context, def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	def.UpdatedAt = s.now().UTC()

	blob, err := json.Marshal(def)
	if err != nil {
		return errors.Join(ErrEncodeDefinition, err)
	}
	if err := s.client.Set(ctx, s.formKey(def.Name), blob, 0).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if err := s.client.SAdd(ctx, s.indexKey(), def.Name).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, name string) (Definition, error) {
	if !ValidName(name) {
		return Definition{}, ErrNotFound
	}
	blob, err := s.client.Get(ctx, s.formKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Definition{}, ErrNotFound
	}
	if err != nil {
		return Definition{}, errors.Join(ErrStoreUnavailable, err)
	}

	var def Definition
	if err := json.Unmarshal(blob, &def); err != nil {
		return Definition{}, errors.Join(ErrDecodeDefinition, err)
	}
	return def, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ErrNotFound
	}
	n, err := s.client.Del(ctx, s.formKey(name)).Result()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if err := s.client.SRem(ctx, s.indexKey(), name).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	slices.Sort(names)
	return names, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return Healthcheck(s.client)(ctx)
}

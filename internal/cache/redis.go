package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the redis-backed Store. The key namespace isolates multiple
// cache instances sharing one backing server; expiry is delegated to redis
// TTLs so no sweeper is needed.
type Redis struct {
	client    *redis.Client
	namespace string
	hits      atomic.Int64
	misses    atomic.Int64
}

// NewRedis creates a redis-backed store under the given namespace prefix.
func NewRedis(client *redis.Client, namespace string) *Redis {
	if namespace == "" {
		namespace = "lexgate:cache"
	}
	return &Redis{client: client, namespace: namespace}
}

func (r *Redis) key(key string) string {
	return r.namespace + ":" + key
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	r.hits.Add(1)
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	removed, err := r.client.Del(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (r *Redis) Has(ctx context.Context, key string) (bool, error) {
	present, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return present > 0, nil
}

// Clear drops only keys under this store's namespace, not the whole server.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.namespace+":*", 0).Iterator()
	pipe := r.client.Pipeline()
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) Stats(ctx context.Context) (Stats, error) {
	size := 0
	iter := r.client.Scan(ctx, 0, r.namespace+":*", 0).Iterator()
	for iter.Next(ctx) {
		size++
	}
	if err := iter.Err(); err != nil {
		return Stats{}, err
	}
	hits, misses := r.hits.Load(), r.misses.Load()
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Size:    size,
		HitRate: hitRate(hits, misses),
	}, nil
}

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis 是 Redis 实现的缓存后端，用于多实例部署。
// 过期由 Redis 自身的 TTL 机制负责（写入时设置，到期主动清除）。
type Redis struct {
	client *redis.Client
	prefix string
}

// DefaultRedisPrefix 是缓存 key 的默认命名空间前缀。
const DefaultRedisPrefix = "rec_cache:"

// NewRedis 创建 Redis 缓存后端并验证连通性。prefix 为空时使用默认前缀。
func NewRedis(addr string, db int, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	return val, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *Redis) Clear(ctx context.Context, pattern string) error {
	if pattern == "" {
		pattern = "*"
	}

	// SCAN 增量遍历，避免 KEYS 阻塞
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.key(pattern), 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// 确保 Redis 实现了 Backend 接口
var _ Backend = (*Redis)(nil)
var _ Backend = (*Memory)(nil)

//go:build !no_redis

package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// scanBatch 每次 SCAN 的建议数量.
const scanBatch = 200

// RedisKV Redis 实现，过期交给 Redis 自身处理.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV 按 URL 或 Addr 连接 Redis 并 PING 一次.
func NewRedisKV(ctx context.Context, config any) (KVStore, error) {
	cfg, ok := config.(*configs.RedisKVConfig)
	if !ok {
		return nil, fmt.Errorf("invalid Redis config %T", config)
	}

	opts := &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}

	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}

		opts = parsed
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}

	return &RedisKV{client: rdb}, nil
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(key)
	}

	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return b, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

func (r *RedisKV) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}

	return n > 0, nil
}

// Keys 使用 SCAN 遍历，不阻塞 Redis.
func (r *RedisKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}

	var keys []string

	iter := r.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", pattern, err)
	}

	return keys, nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}

func init() {
	RegisterKVFactory(KVTypeRedis, NewRedisKV)
}

// Package cache 在 KV 存储之上提供 JSON 编码的 cache-aside 缓存.
//
// 公开读接口（画廊、公司简介、职位列表的 HTTP 响应）读取时 GetOrSet，
// 后台写入成功后用 Delete 或 DeletePattern 失效：
//
//	c := cache.NewCache(store, cache.WithNamespace("smittan"))
//	list, err := cache.GetOrSet(ctx, c, "gallery:list", loadProjects, 5*time.Minute)
//
// 同一个键的并发回源经 singleflight 合并. 缓存不可用时 GetOrSet 直接回源，
// nil *Cache 的所有方法都是空操作.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/singleflight"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/kv"
)

// ErrMiss 键不存在或已过期.
var ErrMiss = kv.ErrNotFound

// writeTimeout 回源后写缓存的超时，不受调用方 context 取消影响.
const writeTimeout = 2 * time.Second

// Cache 带命名空间的缓存.
type Cache struct {
	store     kv.KVStore
	namespace string
	flight    singleflight.Group
}

// Option 缓存选项.
type Option func(*Cache)

// WithNamespace 所有键加上 "ns:" 前缀.
func WithNamespace(ns string) Option {
	return func(c *Cache) { c.namespace = ns }
}

// NewCache 创建缓存.
func NewCache(store kv.KVStore, opts ...Option) *Cache {
	c := &Cache{store: store}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Cache) key(k string) string {
	if c.namespace == "" {
		return k
	}

	return c.namespace + ":" + k
}

// Get 读取并解码，未命中返回包装了 ErrMiss 的错误.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var v T

	if c == nil {
		return v, ErrMiss
	}

	data, err := c.store.Get(ctx, c.key(key))
	if err != nil {
		return v, err
	}

	if err := sonic.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode cached %s: %w", key, err)
	}

	return v, nil
}

// Set 编码并写入，ttl <= 0 表示不过期.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached %s: %w", key, err)
	}

	return c.store.Set(ctx, c.key(key), data, ttl)
}

// GetOrSet 命中时直接返回，否则调用 load 并写入缓存；load 的错误原样返回且不写缓存.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, load func() (T, error), ttl time.Duration) (T, error) {
	if c == nil {
		return load()
	}

	v, err := Get[T](ctx, c, key)
	if err == nil {
		return v, nil
	}

	shared, err, _ := c.flight.Do(c.key(key), func() (any, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}

		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
		defer cancel()

		_ = Set(wctx, c, key, v, ttl)

		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return shared.(T), nil
}

// Exists 判断键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	if c == nil {
		return false, nil
	}

	return c.store.Exists(ctx, c.key(key))
}

// Delete 删除一个键，键不存在不算错误.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}

	err := c.store.Delete(ctx, c.key(key))
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}

	return err
}

// Keys 列出命名空间内匹配 glob 模式的键，返回值不含命名空间前缀.
func (c *Cache) Keys(ctx context.Context, pattern string) ([]string, error) {
	if c == nil {
		return nil, nil
	}

	keys, err := c.store.Keys(ctx, c.key(pattern))
	if err != nil {
		return nil, err
	}

	if c.namespace != "" {
		for i, k := range keys {
			keys[i] = strings.TrimPrefix(k, c.namespace+":")
		}
	}

	return keys, nil
}

// DeletePattern 删除命名空间内匹配 glob 模式的键，返回删除数量.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) (int, error) {
	if c == nil {
		return 0, nil
	}

	keys, err := c.store.Keys(ctx, c.key(pattern))
	if err != nil {
		return 0, err
	}

	var errs []error

	n := 0
	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil && !errors.Is(err, kv.ErrNotFound) {
			errs = append(errs, err)
			continue
		}

		n++
	}

	return n, errors.Join(errs...)
}

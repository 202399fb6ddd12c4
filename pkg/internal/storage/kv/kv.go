// Package kv 定义键值存储接口，各后端在 init 中按类型注册工厂.
package kv

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path"
	"slices"
	"time"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
)

// ErrNotFound 键不存在或已过期.
var ErrNotFound = errors.New("key not found")

// KVStore 键值存储. 所有实现都遵守 ttl 语义：ttl <= 0 永不过期，过期键对读取与列举不可见.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Keys 返回匹配 glob 模式的键，缓存按前缀失效依赖它.
	Keys(ctx context.Context, pattern string) ([]string, error)
	Close() error
}

// KVType 后端类型.
type KVType string

const (
	KVTypeMemory     KVType = configs.KVTypeMemory
	KVTypeRedis      KVType = configs.KVTypeRedis
	KVTypeNATS       KVType = configs.KVTypeNATS
	KVTypeGroupcache KVType = configs.KVTypeGroupcache
)

// KVFactory 由后端自己的子配置创建存储.
type KVFactory func(ctx context.Context, config any) (KVStore, error)

var kvFactories = map[KVType]KVFactory{}

// RegisterKVFactory 注册后端工厂，只在 init 中调用.
func RegisterKVFactory(kvType KVType, factory KVFactory) {
	kvFactories[kvType] = factory
}

// GetRegisteredKVTypes 返回已编译进来的后端，按名称排序.
func GetRegisteredKVTypes() []KVType {
	return slices.Sorted(maps.Keys(kvFactories))
}

// NewKVStore 直接按类型创建存储，不带指标.
func NewKVStore(ctx context.Context, kvType KVType, config any) (KVStore, error) {
	factory, ok := kvFactories[kvType]
	if !ok {
		return nil, fmt.Errorf("unsupported kv type %q (built with %v)", kvType, GetRegisteredKVTypes())
	}

	return factory(ctx, config)
}

// Client 按配置创建的存储，操作计入 smittan_kv_ops_total.
type Client struct {
	KVStore
	Type KVType
}

// NewKVClient 按配置中的类型创建客户端，各后端只接收自己的子配置.
func NewKVClient(ctx context.Context, cfg *configs.KVConfig) (*Client, error) {
	kvType := KVType(cfg.Type)

	subs := map[KVType]any{
		KVTypeRedis:      &cfg.Redis,
		KVTypeNATS:       &cfg.NATS,
		KVTypeGroupcache: &cfg.Groupcache,
	}

	store, err := NewKVStore(ctx, kvType, subs[kvType])
	if err != nil {
		return nil, err
	}

	return &Client{KVStore: instrumented{KVStore: store, backend: string(kvType)}, Type: kvType}, nil
}

// instrumented 为读写计数.
type instrumented struct {
	KVStore
	backend string
}

func (s instrumented) observe(op string, err error, hit bool) {
	result := "ok"

	switch {
	case errors.Is(err, ErrNotFound):
		result = "miss"
	case err != nil:
		result = "error"
	case op == "get":
		result = "hit"
	case op == "exists" && !hit:
		result = "miss"
	}

	metrics.KVOps.WithLabelValues(s.backend, op, result).Inc()
}

func (s instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.KVStore.Get(ctx, key)
	s.observe("get", err, err == nil)

	return v, err
}

func (s instrumented) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.KVStore.Set(ctx, key, value, ttl)
	s.observe("set", err, false)

	return err
}

func (s instrumented) Delete(ctx context.Context, key string) error {
	err := s.KVStore.Delete(ctx, key)
	s.observe("delete", err, false)

	return err
}

func (s instrumented) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.KVStore.Exists(ctx, key)
	s.observe("exists", err, ok)

	return ok, err
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key)
}

// matchKey 以 glob 语义匹配键，空模式匹配全部.
func matchKey(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	ok, err := path.Match(pattern, key)

	return err == nil && ok
}

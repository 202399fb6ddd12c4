package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/groupcache"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// GroupcacheKV 本节点持有写入的数据，读取经 groupcache 的 LRU 与对等节点.
//
// groupcache 的条目不可删除或覆盖，所以每次写入分配新的全局版本号，
// 缓存键为 "key@版本"，旧版本由 LRU 淘汰.
type GroupcacheKV struct {
	group *groupcache.Group
	pool  *groupcache.HTTPPool

	mu      sync.RWMutex
	entries map[string]gcEntry
	version uint64
}

type gcEntry struct {
	sealed  []byte
	version uint64
}

// NewGroupcacheKV 创建 groupcache KV，同一进程内 group 名称不能重复.
func NewGroupcacheKV(_ context.Context, config any) (KVStore, error) {
	cfg, ok := config.(*configs.GroupcacheKVConfig)
	if !ok || cfg == nil {
		return nil, errors.New("groupcache kv: missing config")
	}

	if groupcache.GetGroup(cfg.Name) != nil {
		return nil, fmt.Errorf("groupcache group %q already registered", cfg.Name)
	}

	g := &GroupcacheKV{entries: make(map[string]gcEntry)}
	g.group = groupcache.NewGroup(cfg.Name, cfg.CacheBytes, groupcache.GetterFunc(g.load))

	if len(cfg.Peers) > 0 {
		g.pool = groupcache.NewHTTPPoolOpts(cfg.Self, nil)
		g.pool.Set(cfg.Peers...)
	}

	return g, nil
}

// load 是缓存未命中时的回源，只接受当前版本的键.
func (g *GroupcacheKV) load(_ context.Context, cacheKey string, dest groupcache.Sink) error {
	key, version, ok := splitVersion(cacheKey)
	if !ok {
		return notFound(cacheKey)
	}

	g.mu.RLock()
	e, exists := g.entries[key]
	g.mu.RUnlock()

	if !exists || e.version != version {
		return notFound(key)
	}

	return dest.SetBytes(e.sealed)
}

func splitVersion(cacheKey string) (string, uint64, bool) {
	i := strings.LastIndexByte(cacheKey, '@')
	if i < 0 {
		return "", 0, false
	}

	v, err := strconv.ParseUint(cacheKey[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}

	return cacheKey[:i], v, true
}

func (g *GroupcacheKV) current(key string) (uint64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, ok := g.entries[key]

	return e.version, ok
}

func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	version, ok := g.current(key)
	if !ok {
		return nil, notFound(key)
	}

	var sealed []byte
	if err := g.group.Get(ctx, key+"@"+strconv.FormatUint(version, 10), groupcache.AllocatingByteSliceSink(&sealed)); err != nil {
		return nil, fmt.Errorf("groupcache get %s: %w", key, err)
	}

	value, expired := openTTL(sealed, time.Now())
	if expired {
		g.dropIf(key, version)
		return nil, notFound(key)
	}

	return value, nil
}

// dropIf 只在键仍是给定版本时删除，避免覆盖并发写入.
func (g *GroupcacheKV) dropIf(key string, version uint64) {
	g.mu.Lock()
	if e, ok := g.entries[key]; ok && e.version == version {
		delete(g.entries, key)
	}
	g.mu.Unlock()
}

func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	sealed := sealTTL(value, ttl, time.Now())

	g.mu.Lock()
	g.version++
	g.entries[key] = gcEntry{sealed: sealed, version: g.version}
	g.mu.Unlock()

	return nil
}

func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.entries, key)
	g.mu.Unlock()

	return nil
}

func (g *GroupcacheKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := g.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	return err == nil, err
}

// Keys 列举本节点写入且未过期的键.
func (g *GroupcacheKV) Keys(_ context.Context, pattern string) ([]string, error) {
	now := time.Now()

	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.entries))
	for key, e := range g.entries {
		if _, expired := openTTL(e.sealed, now); !expired && matchKey(pattern, key) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Close 无需释放资源，group 在进程内保持注册.
func (g *GroupcacheKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeGroupcache, NewGroupcacheKV)
}

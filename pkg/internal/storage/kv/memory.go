package kv

import (
	"context"
	"sync"
	"time"
)

// MemoryKV 进程内 KV，单实例部署与测试使用. 过期键在读取或列举时移除.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]memEntry
	now  func() time.Time
}

type memEntry struct {
	value   []byte
	expires time.Time // 零值表示永不过期
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// NewMemoryKV 创建内存 KV，config 被忽略.
func NewMemoryKV(_ context.Context, _ any) (KVStore, error) {
	return &MemoryKV{data: make(map[string]memEntry), now: time.Now}, nil
}

func (m *MemoryKV) lookup(key string) (memEntry, bool) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return memEntry{}, false
	}

	if e.expired(m.now()) {
		m.mu.Lock()
		if cur, still := m.data[key]; still && cur.expired(m.now()) {
			delete(m.data, key)
		}
		m.mu.Unlock()

		return memEntry{}, false
	}

	return e, true
}

// Get 返回值的副本.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := m.lookup(key)
	if !ok {
		return nil, notFound(key)
	}

	return append([]byte(nil), e.value...), nil
}

// Set 保存值的副本，ttl <= 0 表示永不过期.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()

	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()

	return nil
}

func (m *MemoryKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.lookup(key)
	return ok, nil
}

// Keys 返回匹配 glob 模式且未过期的键.
func (m *MemoryKV) Keys(_ context.Context, pattern string) ([]string, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0)

	for k, e := range m.data {
		if e.expired(now) {
			delete(m.data, k)
			continue
		}

		if matchKey(pattern, k) {
			keys = append(keys, k)
		}
	}

	return keys, nil
}

func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeMemory, NewMemoryKV)
}

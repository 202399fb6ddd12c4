package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/cache"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/kv"
)

type project struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Images []string `json:"images"`
}

func newCache(t *testing.T, opts ...cache.Option) (*cache.Cache, kv.KVStore) {
	t.Helper()

	store, err := kv.NewMemoryKV(context.Background(), nil)
	require.NoError(t, err)

	return cache.NewCache(store, opts...), store
}

// TestSetGet 读写往返，未命中返回 ErrMiss.
func TestSetGet(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	_, err := cache.Get[project](ctx, c, "gallery:missing")
	require.ErrorIs(t, err, cache.ErrMiss)

	p := project{ID: "p1", Title: "Harbour", Images: []string{"a.png", "b.png"}}
	require.NoError(t, cache.Set(ctx, c, "gallery:p1", p, time.Minute))

	got, err := cache.Get[project](ctx, c, "gallery:p1")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

// TestNamespace 键在底层存储中带命名空间前缀.
func TestNamespace(t *testing.T) {
	c, store := newCache(t, cache.WithNamespace("smt"))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, c, "company:profile", "deck.pdf", 0))

	ok, err := store.Exists(ctx, "smt:company:profile")
	require.NoError(t, err)
	assert.True(t, ok)

	keys, err := c.Keys(ctx, "company:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"company:profile"}, keys)

	require.NoError(t, c.Delete(ctx, "company:profile"))
	require.NoError(t, c.Delete(ctx, "company:profile"))

	ok, _ = c.Exists(ctx, "company:profile")
	assert.False(t, ok)
}

// TestDeletePattern 只删除命名空间内匹配的键.
func TestDeletePattern(t *testing.T) {
	c, store := newCache(t, cache.WithNamespace("smt"))
	ctx := context.Background()

	for _, k := range []string{"gallery:list", "gallery:p1", "company:profile"} {
		require.NoError(t, cache.Set(ctx, c, k, k, 0))
	}

	require.NoError(t, store.Set(ctx, "other:gallery:x", []byte(`"x"`), 0))

	n, err := c.DeletePattern(ctx, "gallery:*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, _ := c.Exists(ctx, "company:profile")
	assert.True(t, ok)

	ok, _ = store.Exists(ctx, "other:gallery:x")
	assert.True(t, ok)
}

// TestDeletePattern_SkipsExpired 已过期的键不计入删除数量.
func TestDeletePattern_SkipsExpired(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, c, "careers:a", 1, time.Millisecond))
	require.NoError(t, cache.Set(ctx, c, "careers:b", 2, time.Minute))

	time.Sleep(5 * time.Millisecond)

	n, err := c.DeletePattern(ctx, "careers:*")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// TestGetOrSet 第二次读取命中缓存.
func TestGetOrSet(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	calls := 0
	load := func() ([]project, error) {
		calls++
		return []project{{ID: "p1"}}, nil
	}

	for range 2 {
		got, err := cache.GetOrSet(ctx, c, "gallery:list", load, time.Minute)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "p1", got[0].ID)
	}

	assert.Equal(t, 1, calls)
}

// TestGetOrSet_CancelledContext 调用方取消 context 后缓存仍然写入.
func TestGetOrSet_CancelledContext(t *testing.T) {
	c, _ := newCache(t)

	ctx, cancel := context.WithCancel(context.Background())

	_, err := cache.GetOrSet(ctx, c, "company:profile", func() (string, error) {
		cancel()
		return "deck.pdf", nil
	}, time.Minute)
	require.NoError(t, err)

	got, err := cache.Get[string](context.Background(), c, "company:profile")
	require.NoError(t, err)
	assert.Equal(t, "deck.pdf", got)
}

// TestGetOrSet_Concurrent 并发回源只执行一次.
func TestGetOrSet_Concurrent(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	var calls atomic.Int32

	release := make(chan struct{})
	load := func() (string, error) {
		calls.Add(1)
		<-release

		return "v", nil
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			_, _ = cache.GetOrSet(ctx, c, "hot", load, time.Minute)
		})
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

// TestGetOrSet_LoadError 回源错误原样返回且不写缓存.
func TestGetOrSet_LoadError(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	errBoom := errors.New("boom")

	_, err := cache.GetOrSet(ctx, c, "broken", func() (int, error) { return 0, errBoom }, 0)
	require.ErrorIs(t, err, errBoom)

	ok, _ := c.Exists(ctx, "broken")
	assert.False(t, ok)
}

// TestNilCache nil 缓存直接回源，其余方法为空操作.
func TestNilCache(t *testing.T) {
	var c *cache.Cache

	ctx := context.Background()

	got, err := cache.GetOrSet(ctx, c, "k", func() (string, error) { return "direct", nil }, 0)
	require.NoError(t, err)
	assert.Equal(t, "direct", got)

	require.NoError(t, c.Delete(ctx, "k"))

	n, err := c.DeletePattern(ctx, "*")
	require.NoError(t, err)
	assert.Zero(t, n)
}

package kv_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/kv"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
)

// TestMemoryKVRoundTrip 测试内存实现的读写、过期与模式匹配.
func TestMemoryKVRoundTrip(t *testing.T) {
	ctx := context.Background()

	store, err := kv.NewKVStore(ctx, kv.KVTypeMemory, nil)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "gallery:list", []byte("v1"), 0))
	require.NoError(t, store.Set(ctx, "gallery:1", []byte("v2"), time.Minute))
	require.NoError(t, store.Set(ctx, "company:profile", []byte("v3"), time.Nanosecond))

	got, err := store.Get(ctx, "gallery:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	time.Sleep(5 * time.Millisecond)

	_, err = store.Get(ctx, "company:profile")
	require.ErrorIs(t, err, kv.ErrNotFound)

	keys, err := store.Keys(ctx, "gallery:*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gallery:list", "gallery:1"}, keys)

	require.NoError(t, store.Delete(ctx, "gallery:list"))

	ok, err := store.Exists(ctx, "gallery:list")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestGroupcacheKVDeleteInvalidates 删除或覆盖后不能读到旧值.
func TestGroupcacheKVDeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	cfg := &configs.GroupcacheKVConfig{Name: "test-invalidate", CacheBytes: 1 << 20}

	store, err := kv.NewKVStore(ctx, kv.KVTypeGroupcache, cfg)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "company:profile", []byte("old"), 0))

	got, err := store.Get(ctx, "company:profile")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), got)

	require.NoError(t, store.Set(ctx, "company:profile", []byte("new"), 0))

	got, err = store.Get(ctx, "company:profile")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)

	require.NoError(t, store.Delete(ctx, "company:profile"))

	_, err = store.Get(ctx, "company:profile")
	require.ErrorIs(t, err, kv.ErrNotFound)

	// 过期条目读不到，也不出现在 Keys 中
	require.NoError(t, store.Set(ctx, "gallery:list", []byte("x"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	ok, err := store.Exists(ctx, "gallery:list")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := store.Keys(ctx, "*")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

// TestNewKVClientSelectsSubConfig 客户端按类型创建.
func TestNewKVClientSelectsSubConfig(t *testing.T) {
	cli, err := kv.NewKVClient(context.Background(), &configs.KVConfig{Type: "memory"})
	require.NoError(t, err)
	assert.Equal(t, kv.KVTypeMemory, cli.Type)

	_, err = kv.NewKVClient(context.Background(), &configs.KVConfig{Type: "etcd"})
	require.Error(t, err)
}

// TestClientCountsOps 客户端按结果计数，未命中不算错误.
func TestClientCountsOps(t *testing.T) {
	ctx := context.Background()

	cli, err := kv.NewKVClient(ctx, &configs.KVConfig{Type: "memory"})
	require.NoError(t, err)

	hits := metrics.KVOps.WithLabelValues("memory", "get", "hit")
	misses := metrics.KVOps.WithLabelValues("memory", "get", "miss")
	h0, m0 := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	require.NoError(t, cli.Set(ctx, "company:profile", []byte("v"), 0))
	_, err = cli.Get(ctx, "company:profile")
	require.NoError(t, err)
	_, err = cli.Get(ctx, "company:missing")
	require.ErrorIs(t, err, kv.ErrNotFound)

	assert.InDelta(t, h0+1, testutil.ToFloat64(hits), 0)
	assert.InDelta(t, m0+1, testutil.ToFloat64(misses), 0)
}

func BenchmarkMemoryKV(b *testing.B) {
	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		b.Fatalf("create memory kv: %v", err)
	}

	benchKV(b, "memory", store)
	benchKVParallel(b, "memory", store)
	_ = store.Close()
}

func BenchmarkGroupcacheKV(b *testing.B) {
	cfg := &configs.GroupcacheKVConfig{Name: "bench-groupcache", CacheBytes: 32 << 20}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeGroupcache, cfg)
	if err != nil {
		b.Fatalf("create groupcache kv: %v", err)
	}

	benchKV(b, "groupcache", store)
	benchKVParallel(b, "groupcache", store)
	_ = store.Close()
}

// BenchmarkRedisKV 需要 SMITTAN_BENCH_REDIS=host:port.
func BenchmarkRedisKV(b *testing.B) {
	addr := os.Getenv("SMITTAN_BENCH_REDIS")
	if addr == "" {
		b.Skip("SMITTAN_BENCH_REDIS not set")
	}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeRedis, &configs.RedisKVConfig{Addr: addr})
	if err != nil {
		b.Skipf("redis not available: %v", err)
	}

	benchKV(b, "redis", store)
	_ = store.Close()
}

// BenchmarkNATSKV 需要 SMITTAN_BENCH_NATS=nats://host:port.
func BenchmarkNATSKV(b *testing.B) {
	url := os.Getenv("SMITTAN_BENCH_NATS")
	if url == "" {
		b.Skip("SMITTAN_BENCH_NATS not set")
	}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeNATS, &configs.NATSKVConfig{URL: url, Bucket: "smittan-bench"})
	if err != nil {
		b.Skipf("nats not available: %v", err)
	}

	benchKV(b, "nats", store)
	_ = store.Close()
}

// benchKV 执行基本的 Set/Get/Delete 基准测试.
func benchKV(b *testing.B, name string, store kv.KVStore) {
	ctx := context.Background()
	sizes := []int{256, 16 * 1024}
	ttls := []time.Duration{0, 5 * time.Second}

	for _, size := range sizes {
		payload := make([]byte, size)
		_, _ = rand.Read(payload)

		for _, ttl := range ttls {
			b.Run(fmt.Sprintf("%s/size=%d/ttl=%s", name, size, ttl), func(b *testing.B) {
				b.ReportAllocs()

				for i := 0; b.Loop(); i++ {
					key := fmt.Sprintf("bench:%s:%d", name, i)
					if err := store.Set(ctx, key, payload, ttl); err != nil {
						b.Fatalf("set failed: %v", err)
					}

					if _, err := store.Get(ctx, key); err != nil {
						b.Fatalf("get failed: %v", err)
					}

					if err := store.Delete(ctx, key); err != nil {
						b.Fatalf("delete failed: %v", err)
					}
				}
			})
		}
	}
}

// benchKVParallel 执行并行的 Set/Get/Delete 基准测试.
func benchKVParallel(b *testing.B, name string, store kv.KVStore) {
	ctx := context.Background()
	payload := make([]byte, 1024)
	_, _ = rand.Read(payload)

	var ctr uint64

	b.Run(fmt.Sprintf("%s/parallel", name), func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				i := atomic.AddUint64(&ctr, 1)

				key := fmt.Sprintf("bench:%s:p:%d", name, i)
				if err := store.Set(ctx, key, payload, 0); err != nil {
					b.Fatalf("set failed: %v", err)
				}

				if _, err := store.Get(ctx, key); err != nil {
					b.Fatalf("get failed: %v", err)
				}

				if err := store.Delete(ctx, key); err != nil {
					b.Fatalf("delete failed: %v", err)
				}
			}
		})
	})
}

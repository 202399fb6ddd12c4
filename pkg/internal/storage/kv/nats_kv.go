package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// NATSKV JetStream KV bucket 实现. 过期时间写在值头部，读取时惰性删除.
type NATSKV struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

// NATS KV 键只允许 [-/_=.a-zA-Z0-9]，缓存键使用 ':' 分隔命名空间，
// 这里用 '=' 做可逆转义.
var (
	natsKeyEscaper   = strings.NewReplacer("=", "=3D", ":", "=3A", " ", "=20", "*", "=2A", ">", "=3E")
	natsKeyUnescaper = strings.NewReplacer("=3D", "=", "=3A", ":", "=20", " ", "=2A", "*", "=3E", ">")
)

func escapeNATSKey(key string) string   { return natsKeyEscaper.Replace(key) }
func unescapeNATSKey(key string) string { return natsKeyUnescaper.Replace(key) }

// NewNATSKV 连接 NATS 并获取或创建 bucket.
func NewNATSKV(_ context.Context, config any) (KVStore, error) {
	cfg, ok := config.(*configs.NATSKVConfig)
	if !ok {
		return nil, fmt.Errorf("invalid NATS config %T", config)
	}

	opts := []nats.Option{nats.Name("smittan-kv")}
	if cfg.User != "" {
		opts = append(opts, nats.UserInfo(cfg.User, cfg.Password))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", cfg.URL, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	bucket, err := js.KeyValue(cfg.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		bucket, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      cfg.Bucket,
			Description: "smittan cache",
			History:     1,
		})
	}

	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("kv bucket %s: %w", cfg.Bucket, err)
	}

	return &NATSKV{conn: nc, kv: bucket}, nil
}

// load 读取并解开过期头，过期的条目被删除.
func (n *NATSKV) load(key string) ([]byte, error) {
	k := escapeNATSKey(key)

	entry, err := n.kv.Get(k)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, notFound(key)
	}

	if err != nil {
		return nil, fmt.Errorf("nats kv get %s: %w", key, err)
	}

	val, expired := openTTL(entry.Value(), time.Now())
	if expired {
		_ = n.kv.Delete(k)
		return nil, notFound(key)
	}

	return val, nil
}

func (n *NATSKV) Get(_ context.Context, key string) ([]byte, error) {
	return n.load(key)
}

func (n *NATSKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if _, err := n.kv.Put(escapeNATSKey(key), sealTTL(value, ttl, time.Now())); err != nil {
		return fmt.Errorf("nats kv put %s: %w", key, err)
	}

	return nil
}

func (n *NATSKV) Delete(_ context.Context, key string) error {
	err := n.kv.Delete(escapeNATSKey(key))
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("nats kv delete %s: %w", key, err)
	}

	return nil
}

func (n *NATSKV) Exists(_ context.Context, key string) (bool, error) {
	_, err := n.load(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	return err == nil, err
}

// Keys 列出 bucket 中匹配模式的键，返回的是转义前的原始键.
func (n *NATSKV) Keys(_ context.Context, pattern string) ([]string, error) {
	raw, err := n.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return []string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("nats kv keys: %w", err)
	}

	keys := make([]string, 0, len(raw))

	for _, k := range raw {
		key := unescapeNATSKey(k)
		if !matchKey(pattern, key) {
			continue
		}

		if _, err := n.load(key); err != nil {
			continue
		}

		keys = append(keys, key)
	}

	return keys, nil
}

func (n *NATSKV) Close() error {
	return n.conn.Drain()
}

func init() {
	RegisterKVFactory(KVTypeNATS, NewNATSKV)
}

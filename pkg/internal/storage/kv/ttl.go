package kv

import (
	"bytes"
	"encoding/binary"
	"time"
)

// 不支持按键过期的后端（NATS KV、groupcache）把过期时间写在值前面：
//
//	"smttl\x01" | 8 字节大端 unix 纳秒 | 原始值
//
// 没有该前缀的值视为永不过期.
var ttlPrefix = []byte("smttl\x01")

const ttlHeaderLen = 6 + 8

// sealTTL 返回带过期头的副本，ttl <= 0 时返回原值的副本.
func sealTTL(value []byte, ttl time.Duration, now time.Time) []byte {
	if ttl <= 0 {
		return bytes.Clone(value)
	}

	out := make([]byte, ttlHeaderLen+len(value))
	copy(out, ttlPrefix)
	binary.BigEndian.PutUint64(out[len(ttlPrefix):], uint64(now.Add(ttl).UnixNano()))
	copy(out[ttlHeaderLen:], value)

	return out
}

// openTTL 去掉过期头，expired 为 true 时 value 为 nil.
func openTTL(b []byte, now time.Time) (value []byte, expired bool) {
	if len(b) < ttlHeaderLen || !bytes.HasPrefix(b, ttlPrefix) {
		return b, false
	}

	exp := int64(binary.BigEndian.Uint64(b[len(ttlPrefix):ttlHeaderLen]))
	if now.UnixNano() >= exp {
		return nil, true
	}

	return b[ttlHeaderLen:], false
}

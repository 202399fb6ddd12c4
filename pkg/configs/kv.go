package configs

import (
	"time"

	"github.com/spf13/viper"
)

// KV 后端类型.
const (
	KVTypeMemory     = "memory"
	KVTypeRedis      = "redis"
	KVTypeNATS       = "nats"
	KVTypeGroupcache = "groupcache"
)

// KVConfig 键值存储配置，承载响应缓存、读缓存与登录会话撤销表.
type KVConfig struct {
	Type string `mapstructure:"type"      rule:"oneof=memory redis nats groupcache"`
	// CacheTTL 公开读接口（画廊列表、公司简介）的缓存时长.
	CacheTTL   time.Duration      `mapstructure:"cache_ttl"`
	Redis      RedisKVConfig      `mapstructure:"redis"`
	NATS       NATSKVConfig       `mapstructure:"nats"`
	Groupcache GroupcacheKVConfig `mapstructure:"groupcache"`
}

// RedisKVConfig Redis 连接参数，URL 非空时优先于 Addr/Password/DB.
type RedisKVConfig struct {
	URL         string        `mapstructure:"url"          rule:"omitempty,url"`
	Addr        string        `mapstructure:"addr"         rule:"omitempty,hostname_port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"           rule:"min=0,max=15"`
	PoolSize    int           `mapstructure:"pool_size"    rule:"min=0"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// NATSKVConfig JetStream KV bucket 参数.
type NATSKVConfig struct {
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Bucket   string `mapstructure:"bucket"   rule:"required"`
}

// GroupcacheKVConfig groupcache 参数，Peers 为空时只用本地缓存.
type GroupcacheKVConfig struct {
	Name       string   `mapstructure:"name"        rule:"required"`
	CacheBytes int64    `mapstructure:"cache_bytes" rule:"min=1048576"`
	Peers      []string `mapstructure:"peers"`
	Self       string   `mapstructure:"self"`
}

// GetKVType 返回当前配置的 KV 类型.
func (c *KVConfig) GetKVType() string {
	return c.Type
}

func (c *KVConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("kv.type", KVTypeMemory)
	v.SetDefault("kv.cache_ttl", "5m")

	v.SetDefault("kv.redis.addr", "localhost:6379")
	v.SetDefault("kv.redis.db", 0)
	v.SetDefault("kv.redis.pool_size", 0)
	v.SetDefault("kv.redis.dial_timeout", "5s")

	v.SetDefault("kv.nats.url", "nats://localhost:4222")
	v.SetDefault("kv.nats.bucket", "smittan-kv")

	v.SetDefault("kv.groupcache.name", "smittan-cache")
	v.SetDefault("kv.groupcache.cache_bytes", 64<<20)
	v.SetDefault("kv.groupcache.peers", []string{})
	v.SetDefault("kv.groupcache.self", "http://localhost:8080")
}

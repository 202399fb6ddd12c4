package configs

import (
	"time"

	"github.com/spf13/viper"
)

// MQType 消息队列类型.
type MQType string

const (
	MQTypeNATS  MQType = "nats"
	MQTypeRedis MQType = "redis"
	// MQTypeMemory 进程内 gochannel，不需要外部服务.
	MQTypeMemory MQType = "memory"
)

// MQConfig 上传与线索事件的消息总线配置.
type MQConfig struct {
	Type   MQType         `mapstructure:"type"   rule:"oneof=nats redis memory"`
	Common MQCommonConfig `mapstructure:"common"`
	NATS   MQNATSConfig   `mapstructure:"nats"`
	Redis  MQRedisConfig  `mapstructure:"redis"`
}

// MQCommonConfig 各后端共用的连接参数.
type MQCommonConfig struct {
	URL           string        `mapstructure:"url"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	ClientID      string        `mapstructure:"client_id"      rule:"required"`
	MaxReconnects int           `mapstructure:"max_reconnects" rule:"min=-1,max=100"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	PingInterval  time.Duration `mapstructure:"ping_interval"`
	// BufferSize 订阅端通道与 NATS 重连缓冲的大小.
	BufferSize int `mapstructure:"buffer_size" rule:"min=1"`
	// EnableMetrics 为发布订阅装饰 watermill prometheus 指标，Endpoint 为其独立监听地址.
	EnableMetrics bool   `mapstructure:"enable_metrics"`
	Endpoint      string `mapstructure:"endpoint"`
}

// MQNATSConfig NATS 特有参数.
type MQNATSConfig struct {
	JetStream     bool     `mapstructure:"jetstream"`
	AutoProvision bool     `mapstructure:"auto_provision"`
	TrackMsgID    bool     `mapstructure:"track_msg_id"`
	AckAsync      bool     `mapstructure:"ack_async"`
	DurablePrefix string   `mapstructure:"durable_prefix"`
	QueueGroup    string   `mapstructure:"queue_group"`
	JWT           string   `mapstructure:"jwt"`
	NKey          string   `mapstructure:"nkey"`
	ClusterURLs   []string `mapstructure:"cluster_urls"`
}

// MQRedisConfig Redis Pub/Sub 参数.
type MQRedisConfig struct {
	URL      string `mapstructure:"url"      rule:"omitempty,url"`
	Addr     string `mapstructure:"addr"     rule:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       rule:"min=0,max=15"`
}

// GetMQType 返回当前配置的消息队列类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeMemory)

	v.SetDefault("mq.common.url", "nats://localhost:4222")
	v.SetDefault("mq.common.client_id", "smittan")
	v.SetDefault("mq.common.max_reconnects", 10)
	v.SetDefault("mq.common.reconnect_wait", "2s")
	v.SetDefault("mq.common.ping_interval", "20s")
	v.SetDefault("mq.common.buffer_size", 128)
	v.SetDefault("mq.common.enable_metrics", false)
	v.SetDefault("mq.common.endpoint", ":9092")

	v.SetDefault("mq.nats.jetstream", true)
	v.SetDefault("mq.nats.auto_provision", true)
	v.SetDefault("mq.nats.track_msg_id", true)
	v.SetDefault("mq.nats.durable_prefix", "smittan")
	v.SetDefault("mq.nats.queue_group", "smittan-workers")
	v.SetDefault("mq.nats.cluster_urls", []string{})

	v.SetDefault("mq.redis.addr", "localhost:6379")
	v.SetDefault("mq.redis.db", 0)
}

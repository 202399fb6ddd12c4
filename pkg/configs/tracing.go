package configs

import (
	"time"

	"github.com/spf13/viper"
)

// 支持的追踪导出器.
const (
	TracingExporterOTLPHTTP = "otlp-http"
	TracingExporterOTLPGRPC = "otlp-grpc"
	TracingExporterZipkin   = "zipkin"
)

const (
	DefaultTracingBatchSize = 512
	DefaultTracingQueueSize = 2048
)

// TracingConfig 追踪配置，Enabled 为 false 时只注册传播器.
type TracingConfig struct {
	Enabled        bool              `mapstructure:"enabled"`
	ServiceName    string            `mapstructure:"service_name"    rule:"required"`
	ServiceVersion string            `mapstructure:"service_version"`
	ExporterType   string            `mapstructure:"exporter_type"   rule:"oneof=otlp-http otlp-grpc zipkin"`
	Endpoint       string            `mapstructure:"endpoint"`
	Insecure       bool              `mapstructure:"insecure"` // 仅 otlp-grpc 使用
	SampleRate     float64           `mapstructure:"sample_rate"     rule:"min=0,max=1"`
	BatchTimeout   time.Duration     `mapstructure:"batch_timeout"`
	MaxBatchSize   int               `mapstructure:"max_batch_size"  rule:"min=1"`
	MaxQueueSize   int               `mapstructure:"max_queue_size"  rule:"min=1"`
	ResourceLabels map[string]string `mapstructure:"resource_labels"`
}

func (c *TracingConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "smittan")
	v.SetDefault("tracing.service_version", AppVersion)
	v.SetDefault("tracing.exporter_type", TracingExporterOTLPHTTP)
	v.SetDefault("tracing.endpoint", "http://localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("tracing.batch_timeout", "5s")
	v.SetDefault("tracing.max_batch_size", DefaultTracingBatchSize)
	v.SetDefault("tracing.max_queue_size", DefaultTracingQueueSize)
	v.SetDefault("tracing.resource_labels", map[string]string{"deployment.environment": "production"})
}

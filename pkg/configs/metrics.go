package configs

import (
	"github.com/spf13/viper"
)

// MetricsConfig Prometheus 指标配置，指标挂在主 HTTP 引擎的 Path 上.
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Path           string `mapstructure:"path"            rule:"required,startswith=/"`
	RuntimeMetrics bool   `mapstructure:"runtime_metrics"`
	// Pprof 在 /debug/pprof 下挂载性能分析端点，只应在内网开启.
	Pprof bool `mapstructure:"pprof"`
	// Labels 附加到全部指标的常量标签.
	Labels map[string]string `mapstructure:"labels"`
}

func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.runtime_metrics", true)
	v.SetDefault("metrics.pprof", false)
	v.SetDefault("metrics.labels", map[string]string{"version": AppVersion})
}

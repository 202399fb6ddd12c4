package configs

import (
	"time"

	"github.com/spf13/viper"
)

// CircuitBreakerConfig 熔断配置，HTTP 服务与内容托管客户端各自持有一个熔断器.
type CircuitBreakerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// FailureRate 统计窗口内失败比例达到该值时打开.
	FailureRate float64 `mapstructure:"failure_rate"  rule:"gt=0,lte=1"`
	// MinRequests 窗口内请求数少于该值时不打开.
	MinRequests uint32        `mapstructure:"min_requests"  rule:"min=1"`
	Window      time.Duration `mapstructure:"window"        rule:"min=0"`
	// OpenFor 打开后多久进入半开.
	OpenFor time.Duration `mapstructure:"open_for"      rule:"min=0"`
	// HalfOpenMax 半开状态放行的请求数.
	HalfOpenMax uint32 `mapstructure:"half_open_max" rule:"min=1"`
}

func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.failure_rate", 0.5)
	v.SetDefault("circuit_breaker.min_requests", 10)
	v.SetDefault("circuit_breaker.window", time.Minute)
	v.SetDefault("circuit_breaker.open_for", 30*time.Second)
	v.SetDefault("circuit_breaker.half_open_max", 3)
}

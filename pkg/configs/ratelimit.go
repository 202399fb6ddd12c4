package configs

import "github.com/spf13/viper"

// RateLimitConfig 公开表单与登录接口的限流配置，按客户端分别计数.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Key 计数维度：ip 或 header:<Header-Name>，请求头缺失时退回 ip.
	Key string `mapstructure:"key"`
	// Scopes 以路由范围（login、password_reset、contact、apply）为键，未配置的范围使用 Default.
	Scopes  map[string]RateLimitRule `mapstructure:"scopes"`
	Default RateLimitRule            `mapstructure:"default"`
}

// RateLimitRule 每分钟允许的请求数与突发容量.
type RateLimitRule struct {
	PerMinute float64 `mapstructure:"per_minute" rule:"min=0"`
	Burst     int     `mapstructure:"burst"      rule:"min=0"`
}

// Rule 返回 scope 生效的规则.
func (c RateLimitConfig) Rule(scope string) RateLimitRule {
	if r, ok := c.Scopes[scope]; ok {
		return r
	}

	return c.Default
}

func (c *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.key", "ip")
	v.SetDefault("rate_limit.default.per_minute", 30)
	v.SetDefault("rate_limit.default.burst", 10)
	v.SetDefault("rate_limit.scopes", map[string]any{
		"login":   map[string]any{"per_minute": 10, "burst": 5},
		"contact": map[string]any{"per_minute": 5, "burst": 3},
		"apply":   map[string]any{"per_minute": 5, "burst": 3},
		// 同一客户端约 40 秒一次
		"password_reset": map[string]any{"per_minute": 1.5, "burst": 1},
	})
}

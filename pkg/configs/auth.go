package configs

import (
	"time"

	"github.com/spf13/viper"
)

// AuthConfig 托管认证服务（GoTrue 兼容接口）配置.
//
// 会话令牌来自 Authorization: Bearer 请求头或 SessionCookie 指定的 cookie.
// JWTSecret 非空时本地校验 HS256 令牌，否则调用 {URL}/auth/v1/user 远程校验.
type AuthConfig struct {
	URL            string        `mapstructure:"url"             rule:"omitempty,url"`
	AnonKey        string        `mapstructure:"anon_key"`   // 作为 apikey 请求头发送
	JWTSecret      string        `mapstructure:"jwt_secret"` // 仅从配置或环境变量读取
	SessionCookie  string        `mapstructure:"session_cookie"  rule:"required"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" rule:"min=0"`
	// ServiceUserID 后台发起上传（如求职简历）时使用的服务主体标识.
	ServiceUserID string `mapstructure:"service_user_id" rule:"required"`
	// ResetRedirectURL 重置密码邮件中的跳转地址，为空时由认证服务使用站点默认地址.
	ResetRedirectURL string `mapstructure:"reset_redirect_url" rule:"omitempty,url"`
	// SkipPaths 跳过会话解析的路径前缀.
	SkipPaths []string `mapstructure:"skip_paths"`
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.url", "")
	v.SetDefault("auth.anon_key", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_cookie", "sb-access-token")
	v.SetDefault("auth.request_timeout", "10s")
	v.SetDefault("auth.service_user_id", "service:careers-apply")
	v.SetDefault("auth.reset_redirect_url", "")
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/v1/health",
		"/swagger",
	})
}

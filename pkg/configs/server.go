package configs

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultMaxUploadSize 单个 multipart 请求体上限（字节）.
const DefaultMaxUploadSize = 20 << 20

// ServerConfig HTTP 监听与请求限制.
type ServerConfig struct {
	Host string `mapstructure:"host" rule:"ip"`
	Port int    `mapstructure:"port" rule:"min=1,max=65535"`
	// Debug 开启 gin 调试模式与 swagger，关闭会话 cookie 的 Secure 标记.
	Debug        bool `mapstructure:"debug"`
	ReloadConfig bool `mapstructure:"reload_config"`

	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" rule:"min=0"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"        rule:"min=0"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"       rule:"min=0"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"        rule:"min=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"    rule:"min=0"`

	MaxUploadSize int64 `mapstructure:"max_upload_size" rule:"min=1"`

	// AllowOrigins 为空或包含 "*" 时允许任意来源，此时不允许携带凭据.
	AllowOrigins []string      `mapstructure:"allow_origins"`
	CORSMaxAge   time.Duration `mapstructure:"cors_max_age"`
}

func (s *ServerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.reload_config", true)
	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.max_upload_size", DefaultMaxUploadSize)
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("server.cors_max_age", "12h")
}

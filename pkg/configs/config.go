// Package configs 加载并校验应用配置. 支持 YAML、JSON、TOML 与 dotenv 文件，
// 环境变量以 SMITTAN_ 为前缀覆盖同名键，例如 SMITTAN_UPLOAD_CONTENT_HOST_TOKEN 对应 upload.content_host.token.
//
//	if err := configs.InitConfig("./"); err != nil {
//		return err
//	}
//	up := configs.GetConfig().Upload
//
// 凭据（content host token、JWT secret、数据库密码、S3 密钥）只能来自配置文件或环境变量.
// 开启 server.reload_config 时配置文件变更会重新加载，校验失败的新配置被丢弃.
package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// AppVersion 应用版本号.
const AppVersion = "0.3.0"

// EnvPrefix 环境变量前缀.
const EnvPrefix = "SMITTAN"

// AppConfig 全局配置.
type AppConfig struct {
	Server         ServerConfig         `mapstructure:"server"`
	Log            LogConfig            `mapstructure:"log"`
	DB             DBConfig             `mapstructure:"db"`
	S3             S3Config             `mapstructure:"s3"`
	KV             KVConfig             `mapstructure:"kv"`
	MQ             MQConfig             `mapstructure:"mq"`
	Events         EventsConfig         `mapstructure:"events"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Upload         UploadConfig         `mapstructure:"upload"`
	Metrics        MetricsConfig        `mapstructure:"metrics"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// configExts 目录中按顺序查找 config.<ext>.
var configExts = []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

var (
	current  atomic.Pointer[AppConfig]
	appViper *viper.Viper

	hooksMu sync.Mutex
	hooks   []func(*AppConfig)
)

// OnReload 注册配置热加载成功后的回调，回调在 fsnotify 的 goroutine 中执行.
func OnReload(fn func(*AppConfig)) {
	hooksMu.Lock()
	hooks = append(hooks, fn)
	hooksMu.Unlock()
}

func runHooks(cfg *AppConfig) {
	hooksMu.Lock()
	fns := slices.Clone(hooks)
	hooksMu.Unlock()

	for _, fn := range fns {
		fn(cfg)
	}
}

func init() {
	current.Store(&AppConfig{})
}

// InitConfig 从文件或目录加载配置，找不到配置文件时只使用默认值与环境变量.
func InitConfig(path string) error {
	v := viper.New()
	setAllDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := locate(path); file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return err
	}

	appViper = v
	current.Store(cfg)

	if cfg.Server.ReloadConfig && v.ConfigFileUsed() != "" {
		watch(v)
	}

	return nil
}

// locate 返回要读取的配置文件，path 可以是文件或目录.
func locate(path string) string {
	if path == "" {
		return ""
	}

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}

	for _, dir := range []string{path, filepath.Join(path, "configs")} {
		for _, ext := range configExts {
			f := filepath.Join(dir, "config."+ext)
			if _, err := os.Stat(f); err == nil {
				return f
			}
		}
	}

	return ""
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func watch(v *viper.Viper) {
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(v)
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("rejected reloaded config")
			return
		}

		current.Store(cfg)
		log.Info().Str("file", e.Name).Msg("config reloaded")
		runHooks(cfg)
	})
	v.WatchConfig()
}

func setAllDefaults(v *viper.Viper) {
	for _, d := range []interface{ setDefaults(*viper.Viper) }{
		&ServerConfig{}, &LogConfig{}, &DBConfig{}, &S3Config{}, &KVConfig{}, &MQConfig{},
		&EventsConfig{}, &AuthConfig{}, &UploadConfig{}, &MetricsConfig{}, &TracingConfig{},
		&RateLimitConfig{}, &CircuitBreakerConfig{},
	} {
		d.setDefaults(v)
	}
}

// GetConfig 返回当前配置，热重载后返回新实例，调用方不应修改返回值.
func GetConfig() *AppConfig {
	return current.Load()
}

// GetViper 返回加载配置使用的 viper 实例，未初始化时为 nil.
func GetViper() *viper.Viper {
	return appViper
}

// SetConfig 直接替换当前配置，仅用于测试与 CLI 覆盖.
func SetConfig(cfg AppConfig) {
	current.Store(&cfg)
}

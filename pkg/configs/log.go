package configs

import (
	"github.com/spf13/viper"
)

// 日志格式.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// LogConfig 日志配置. 文件输出使用 lumberjack 按大小轮转.
type LogConfig struct {
	Level  string `mapstructure:"level"  rule:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" rule:"oneof=console json"`

	EnableFile bool   `mapstructure:"enable_file"`
	FilePath   string `mapstructure:"file_path"    rule:"required_if=EnableFile true"`
	MaxSize    int    `mapstructure:"max_size_mb"  rule:"min=0"`
	MaxBackups int    `mapstructure:"max_backups"  rule:"min=0"`
	MaxAge     int    `mapstructure:"max_age_days" rule:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

func (l *LogConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", LogFormatJSON)
	v.SetDefault("log.enable_file", false)
	v.SetDefault("log.file_path", "logs/smittan.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", true)
}

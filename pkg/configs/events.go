package configs

import "github.com/spf13/viper"

// EventsConfig 控制领域事件发布的开关（全局与分主题）.
type EventsConfig struct {
	Enabled bool               `mapstructure:"enabled"` // 总开关
	Upload  UploadEventsConfig `mapstructure:"upload"`
	Records RecordEventsConfig `mapstructure:"records"`
}

// UploadEventsConfig 上传领域事件开关.
type UploadEventsConfig struct {
	Stored bool `mapstructure:"stored"`
	Failed bool `mapstructure:"failed"`
}

// RecordEventsConfig 业务记录事件开关.
type RecordEventsConfig struct {
	ApplicationReceived bool `mapstructure:"application_received"`
	LeadSubmitted       bool `mapstructure:"lead_submitted"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)

	v.SetDefault("events.upload.stored", true)
	// 失败事件默认关闭，失败已经记录在日志和指标中
	v.SetDefault("events.upload.failed", false)

	v.SetDefault("events.records.application_received", true)
	v.SetDefault("events.records.lead_submitted", true)
}

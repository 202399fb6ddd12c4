package configs

import (
	"time"

	"github.com/spf13/viper"
)

// UploadBackend 上传后端类型，部署时二选一.
type UploadBackend string

const (
	// UploadBackendObjectStore S3 / MinIO 兼容存储桶.
	UploadBackendObjectStore UploadBackend = "object_store"
	// UploadBackendContentHost 代码托管平台 contents API，文件由静态站点发布.
	UploadBackendContentHost UploadBackend = "content_host"
)

const (
	DefaultUploadBackend        = UploadBackendObjectStore
	DefaultUploadBucket         = "gallery"
	DefaultUploadCacheControl   = "3600"
	DefaultUploadPublicBaseURL  = "http://localhost:9000"
	DefaultContentHostAPIURL    = "https://api.github.com"
	DefaultContentHostBranch    = "gh-pages"
	DefaultContentHostDirectory = "public/lovable-uploads"
	DefaultContentHostAttempts  = 3                // 409 冲突时整体重试的总次数
	DefaultContentHostDelay     = time.Second      // 两次尝试之间的固定间隔
	DefaultContentHostTimeout   = 30 * time.Second // 单次尝试超时
)

type (
	// UploadConfig 上传管道配置.
	UploadConfig struct {
		Backend     UploadBackend     `mapstructure:"backend"      rule:"oneof=object_store content_host"`
		ObjectStore ObjectStoreConfig `mapstructure:"object_store"`
		ContentHost ContentHostConfig `mapstructure:"content_host"`
	}

	// ObjectStoreConfig 存储桶后端配置.
	ObjectStoreConfig struct {
		Bucket        string `mapstructure:"bucket"          rule:"required"`
		Prefix        string `mapstructure:"prefix"`
		CacheControl  string `mapstructure:"cache_control"`
		PublicBaseURL string `mapstructure:"public_base_url" rule:"required,url"`
	}

	// ContentHostConfig 内容托管后端配置.
	// Token 只能来自配置文件或 SMITTAN_UPLOAD_CONTENT_HOST_TOKEN.
	ContentHostConfig struct {
		APIURL         string        `mapstructure:"api_url"         rule:"required,url"`
		Owner          string        `mapstructure:"owner"`
		Repo           string        `mapstructure:"repo"`
		Branch         string        `mapstructure:"branch"`
		Directory      string        `mapstructure:"directory"`
		Token          string        `mapstructure:"token"`
		MaxAttempts    int           `mapstructure:"max_attempts"    rule:"min=1,max=10"`
		ConflictDelay  time.Duration `mapstructure:"conflict_delay"  rule:"min=0"`
		AttemptTimeout time.Duration `mapstructure:"attempt_timeout" rule:"min=0"`
		// PagesBaseURL 覆盖默认的 https://{owner}.github.io/{repo} 发布地址.
		PagesBaseURL string `mapstructure:"pages_base_url" rule:"omitempty,url"`
	}
)

func (c *UploadConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("upload.backend", DefaultUploadBackend)

	v.SetDefault("upload.object_store.bucket", DefaultUploadBucket)
	v.SetDefault("upload.object_store.prefix", "")
	v.SetDefault("upload.object_store.cache_control", DefaultUploadCacheControl)
	v.SetDefault("upload.object_store.public_base_url", DefaultUploadPublicBaseURL)

	v.SetDefault("upload.content_host.api_url", DefaultContentHostAPIURL)
	v.SetDefault("upload.content_host.owner", "")
	v.SetDefault("upload.content_host.repo", "")
	v.SetDefault("upload.content_host.branch", DefaultContentHostBranch)
	v.SetDefault("upload.content_host.directory", DefaultContentHostDirectory)
	v.SetDefault("upload.content_host.token", "")
	v.SetDefault("upload.content_host.max_attempts", DefaultContentHostAttempts)
	v.SetDefault("upload.content_host.conflict_delay", DefaultContentHostDelay)
	v.SetDefault("upload.content_host.attempt_timeout", DefaultContentHostTimeout)
	v.SetDefault("upload.content_host.pages_base_url", "")
}

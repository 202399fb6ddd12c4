package configs

import (
	"github.com/spf13/viper"
)

// S3Config S3 兼容对象存储（MinIO、R2、AWS S3）的连接参数，仅在上传后端为 object_store 时使用.
// 凭据只从配置文件或 SMITTAN_S3_ACCESS_KEY_ID / SMITTAN_S3_SECRET_ACCESS_KEY 读取.
type S3Config struct {
	// Endpoint 可带 http:// 或 https://，带 scheme 时覆盖 UseSSL.
	Endpoint        string `mapstructure:"endpoint"          rule:"required"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	// PathStyle 强制路径风格寻址，MinIO 需要开启.
	PathStyle bool `mapstructure:"path_style"`
	// EnsureBuckets 启动时不存在则创建.
	EnsureBuckets []string `mapstructure:"ensure_buckets" rule:"dive,omitempty,min=3,max=63"`
}

func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", "localhost:9000")
	v.SetDefault("s3.use_ssl", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.path_style", true)
	v.SetDefault("s3.ensure_buckets", []string{DefaultUploadBucket})
}

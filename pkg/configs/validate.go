package configs

import (
	"errors"
	"fmt"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/rule"
)

// ErrInvalidConfig 配置校验失败.
var ErrInvalidConfig = errors.New("invalid config")

// Validate 使用 rule 标签校验配置，并检查跨字段约束.
func Validate(c *AppConfig) error {
	if err := rule.ValidateStruct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, rule.Describe(err))
	}

	if c.Upload.Backend == UploadBackendContentHost {
		ch := c.Upload.ContentHost
		if ch.Owner == "" || ch.Repo == "" || ch.Branch == "" {
			return fmt.Errorf("%w: upload.content_host requires owner, repo and branch", ErrInvalidConfig)
		}
	}

	return nil
}

package upload

import (
	"errors"
	"fmt"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/naming"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/queue"
)

// ErrBackendUnavailable 配置的后端缺少依赖.
var ErrBackendUnavailable = errors.New("upload backend unavailable")

// Deps 构建上传器需要的协作方，只需提供配置后端对应的一项.
type Deps struct {
	Bucket Bucket
	Files  Files
	Events *queue.Events
	Policy naming.Policy
}

// New 按 upload.backend 选择唯一的上传器，并加上观测包装.
func New(cfg configs.UploadConfig, deps Deps) (Uploader, error) {
	policy := deps.Policy
	if policy.Now == nil {
		policy = naming.Default
	}

	var u Uploader

	switch cfg.Backend {
	case configs.UploadBackendObjectStore, "":
		if deps.Bucket == nil {
			return nil, fmt.Errorf("%w: object_store needs a bucket", ErrBackendUnavailable)
		}

		u = NewObjectStore(deps.Bucket, cfg.ObjectStore, policy)
	case configs.UploadBackendContentHost:
		if deps.Files == nil {
			return nil, fmt.Errorf("%w: content_host needs a client", ErrBackendUnavailable)
		}

		u = NewContentHost(deps.Files, cfg.ContentHost, policy)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, cfg.Backend)
	}

	return Instrument(u, deps.Events), nil
}

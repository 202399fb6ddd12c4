// Package upload 把二进制文件写入配置的后端并返回稳定的公开地址.
//
// 两种后端二选一：
//
//   - ObjectStore：S3 / MinIO 兼容存储桶，禁止覆盖，不重试.
//   - ContentHost：代码托管平台 contents API，遇到 409 冲突时换新名称整体重试.
//
// 公开地址只由路径和后端的静态模板决定，不需要额外的远程调用.
package upload

import (
	"context"
	"fmt"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
)

// Backend 上传后端标识.
type Backend string

const (
	BackendObjectStore = Backend(configs.UploadBackendObjectStore)
	BackendContentHost = Backend(configs.UploadBackendContentHost)
)

// Request 一次上传的输入，创建后不再修改.
type Request struct {
	Data        []byte
	FileName    string
	ContentType string
}

// Size 内容字节数.
func (r Request) Size() int64 {
	return int64(len(r.Data))
}

// Descriptor 已写入对象的描述.
type Descriptor struct {
	Backend   Backend `json:"backend"`
	Path      string  `json:"path"`
	PublicURL string  `json:"public_url"`
	// Attempts 实际尝试次数，对象存储恒为 1.
	Attempts int `json:"attempts,omitempty"`
}

// Uploader 上传器.
type Uploader interface {
	Backend() Backend
	// Upload 要求 p 已经通过管理员校验.
	Upload(ctx context.Context, p admin.Principal, req Request) (Descriptor, error)
}

// authorize 检查主体与请求，失败时不进行任何远程调用.
func authorize(p admin.Principal, req Request) error {
	if !p.IsAdmin {
		return fmt.Errorf("upload %q: %w", req.FileName, admin.ErrForbidden)
	}

	if len(req.Data) == 0 {
		return fmt.Errorf("upload %q: %w", req.FileName, ErrEmptyFile)
	}

	return nil
}

package upload

import (
	"errors"
	"fmt"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
)

var (
	// ErrStorageWrite 对象存储拒绝写入（配额、权限、路径已存在）.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrURLResolution 写入成功但无法得到公开地址.
	ErrURLResolution = errors.New("public url resolution failed")
	// ErrUploadTransport 内容托管请求失败（鉴权、限流、5xx、网络、超时）.
	ErrUploadTransport = errors.New("upload transport failed")
	// ErrUploadConflict 路径冲突且重试次数用尽.
	ErrUploadConflict = errors.New("upload conflict after retries")
	// ErrIntegrity 响应看似成功但缺少确认信息.
	ErrIntegrity = errors.New("upload response missing confirmation")
	// ErrEmptyFile 请求不包含任何内容.
	ErrEmptyFile = errors.New("empty file")
)

// Error 携带后端与目标路径的上传错误.
// errors.Is 同时匹配错误类别（Kind）与底层原因（Err）.
type Error struct {
	Backend Backend
	Path    string
	Kind    error
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s upload of %q: %v", e.Backend, e.Path, e.Kind)
	}

	return fmt.Sprintf("%s upload of %q: %v: %v", e.Backend, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func newError(backend Backend, path string, kind, err error) *Error {
	return &Error{Backend: backend, Path: path, Kind: kind, Err: err}
}

// KindOf 返回错误类别标签，用于指标与事件.
func KindOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, admin.ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrEmptyFile):
		return "empty_file"
	case errors.Is(err, ErrStorageWrite):
		return "storage_write"
	case errors.Is(err, ErrURLResolution):
		return "url_resolution"
	case errors.Is(err, ErrUploadConflict):
		return "conflict"
	case errors.Is(err, ErrIntegrity):
		return "integrity"
	case errors.Is(err, ErrUploadTransport):
		return "transport"
	default:
		return "error"
	}
}

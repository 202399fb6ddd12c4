// Package handle 提供 HTTP 请求处理器，业务逻辑由 service 包完成.
package handle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	ctxPkg "github.com/datalytikasales/smittan-vibrant-ventures/pkg/context"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/authn"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/upload"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/rule"
)

var (
	errFileTooLarge     = errors.New("file too large")
	errServicesMissing  = errors.New("services not initialized")
	errMissingParameter = errors.New("missing path parameter")
)

// DefaultHandler 未实现的路由.
func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// statusOf 把错误映射为 HTTP 状态码.
func statusOf(err error) int {
	switch {
	case errors.Is(err, admin.ErrUnauthenticated), errors.Is(err, authn.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, admin.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, authn.ErrRateLimited):
		return http.StatusTooManyRequests
	// 上游错误可能包着 record not found，必须先于 404 判断
	case errors.Is(err, admin.ErrProfileLookup), errors.Is(err, authn.ErrProvider),
		errors.Is(err, upload.ErrStorageWrite), errors.Is(err, upload.ErrUploadTransport),
		errors.Is(err, upload.ErrUploadConflict), errors.Is(err, upload.ErrIntegrity),
		errors.Is(err, upload.ErrURLResolution):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrValidation), errors.Is(err, upload.ErrEmptyFile),
		errors.Is(err, service.ErrUnsupportedFile), errors.Is(err, errMissingParameter):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrJobClosed), errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errServicesMissing), errors.Is(err, authn.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError 记录并返回错误响应，5xx 按 error 级别记录.
func writeError(c *gin.Context, l *zerolog.Logger, err error) {
	status := statusOf(err)
	lg := ctxPkg.WithTraceContext(c.Request.Context(), *l)

	ev := lg.Warn()
	if status >= http.StatusInternalServerError {
		ev = lg.Error()
	}

	ev.Err(err).Int("status", status).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(status, gin.H{"error": err.Error()})
}

// services 取出请求 context 中的服务.
func services(c *gin.Context) (*service.Services, error) {
	s := service.FromContext(c.Request.Context())
	if s == nil {
		return nil, errServicesMissing
	}

	return s, nil
}

// principal 返回 RequireAdmin 写入的主体，未经过校验时为零值（非管理员）.
func principal(c *gin.Context) admin.Principal {
	p, _ := admin.PrincipalFrom(c.Request.Context())
	return p
}

// param 读取必填的路径参数.
func param(c *gin.Context, name string) (string, error) {
	v := c.Param(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s", errMissingParameter, name)
	}

	return v, nil
}

// maxUploadSize 单个文件的字节上限.
func maxUploadSize() int64 {
	if cfg := configs.GetConfig(); cfg != nil && cfg.Server.MaxUploadSize > 0 {
		return cfg.Server.MaxUploadSize
	}

	return configs.DefaultMaxUploadSize
}

// readFile 读取 multipart 文件为上传请求.
func readFile(fh *multipart.FileHeader) (upload.Request, error) {
	limit := maxUploadSize()
	if fh.Size > limit {
		return upload.Request{}, fmt.Errorf("%w: %s is %d bytes, limit %d", errFileTooLarge, fh.Filename, fh.Size, limit)
	}

	src, err := fh.Open()
	if err != nil {
		return upload.Request{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return upload.Request{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	if int64(len(data)) > limit {
		return upload.Request{}, fmt.Errorf("%w: %s", errFileTooLarge, fh.Filename)
	}

	return upload.Request{
		Data:        data,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

// bindError 绑定失败统一按校验错误处理.
func bindError(err error) error {
	return fmt.Errorf("%w: %s", service.ErrValidation, rule.Describe(err))
}

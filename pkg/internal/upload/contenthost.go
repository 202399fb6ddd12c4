package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/naming"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/contenthost"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
)

// Files 内容托管的文件创建接口，*contenthost.Client 满足该接口.
type Files interface {
	Owner() string
	Repo() string
	CreateFile(ctx context.Context, path, message, content, branch string) (*contenthost.FileContent, error)
}

// ContentHost 内容托管上传器.
type ContentHost struct {
	files    Files
	branch   string
	dir      string
	attempts int
	delay    time.Duration
	timeout  time.Duration
	pagesURL string
	policy   naming.Policy
}

// NewContentHost 创建内容托管上传器.
func NewContentHost(files Files, cfg configs.ContentHostConfig, policy naming.Policy) *ContentHost {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = configs.DefaultContentHostAttempts
	}

	pages := strings.TrimRight(cfg.PagesBaseURL, "/")
	if pages == "" {
		pages = fmt.Sprintf("https://%s.github.io/%s", files.Owner(), files.Repo())
	}

	return &ContentHost{
		files:    files,
		branch:   cfg.Branch,
		dir:      cfg.Directory,
		attempts: attempts,
		delay:    cfg.ConflictDelay,
		timeout:  cfg.AttemptTimeout,
		pagesURL: pages,
		policy:   policy,
	}
}

// Backend 实现 Uploader.
func (h *ContentHost) Backend() Backend { return BackendContentHost }

// PublicURL 返回 {pages}/{path}.
func (h *ContentHost) PublicURL(path string) string {
	return h.pagesURL + "/" + strings.TrimLeft(path, "/")
}

// Upload 提交文件.
// 409 冲突时重新生成名称并整体重试，最多 attempts 次，间隔固定；其余失败立即返回.
func (h *ContentHost) Upload(ctx context.Context, p admin.Principal, req Request) (Descriptor, error) {
	if err := authorize(p, req); err != nil {
		return Descriptor{}, err
	}

	logger := log.Component("upload")
	content := base64.StdEncoding.EncodeToString(req.Data)

	var (
		attempt  int
		lastPath string
	)

	op := func() (Descriptor, error) {
		attempt++

		name := h.policy.Generate(req.FileName)
		path := naming.Join(h.dir, name)
		lastPath = path

		fc, err := h.submit(ctx, path, "Upload "+name, content)
		if err != nil {
			if contenthost.IsConflict(err) {
				metrics.UploadAttempts.WithLabelValues(string(BackendContentHost), "conflict").Inc()
				logger.Warn().Int("attempt", attempt).Str("path", path).Msg("path conflict, retrying with a new name")

				return Descriptor{}, err
			}

			// 2xx 但响应体无法解析，视为缺少确认数据
			if errors.Is(err, contenthost.ErrMalformedResponse) {
				metrics.UploadAttempts.WithLabelValues(string(BackendContentHost), "integrity").Inc()
				return Descriptor{}, backoff.Permanent(newError(BackendContentHost, path, ErrIntegrity, err))
			}

			metrics.UploadAttempts.WithLabelValues(string(BackendContentHost), "error").Inc()

			return Descriptor{}, backoff.Permanent(newError(BackendContentHost, path, ErrUploadTransport, err))
		}

		if fc == nil || fc.SHA == "" {
			metrics.UploadAttempts.WithLabelValues(string(BackendContentHost), "integrity").Inc()
			return Descriptor{}, backoff.Permanent(newError(BackendContentHost, path, ErrIntegrity, nil))
		}

		metrics.UploadAttempts.WithLabelValues(string(BackendContentHost), "ok").Inc()

		return Descriptor{
			Backend:   BackendContentHost,
			Path:      path,
			PublicURL: h.PublicURL(path),
			Attempts:  attempt,
		}, nil
	}

	d, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(h.delay)),
		backoff.WithMaxTries(uint(h.attempts)),
		backoff.WithMaxElapsedTime(0),
	)
	if err == nil {
		return d, nil
	}

	var ue *Error
	if errors.As(err, &ue) {
		return Descriptor{}, ue
	}

	if contenthost.IsConflict(err) {
		return Descriptor{}, newError(BackendContentHost, lastPath, ErrUploadConflict,
			fmt.Errorf("%d attempts: %w", attempt, err))
	}

	// 等待重试期间 context 结束
	return Descriptor{}, newError(BackendContentHost, lastPath, ErrUploadTransport, err)
}

// submit 单次尝试，带独立超时.
func (h *ContentHost) submit(ctx context.Context, path, message, content string) (*contenthost.FileContent, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	return h.files.CreateFile(ctx, path, message, content, h.branch)
}

// Package contenthost 封装代码托管平台的 contents API，用于把文件提交到静态站点分支.
//
// 请求：PUT {api}/repos/{owner}/{repo}/contents/{path}
//
//	{"message": "...", "content": "<base64>", "branch": "gh-pages"}
//
// 成功响应中 content.sha 标识新提交的文件.
package contenthost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/sony/gobreaker"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/breaker"
)

const (
	acceptHeader  = "application/vnd.github+json"
	apiVersion    = "2022-11-28"
	maxErrorBytes = 4 << 10
)

var (
	// ErrMalformedResponse 2xx 响应体无法解析.
	ErrMalformedResponse = errors.New("malformed content host response")
	// ErrBreakerOpen 熔断器打开，请求未发出.
	ErrBreakerOpen = errors.New("content host circuit open")
)

// Doer 执行 HTTP 请求，*http.Client 满足该接口.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError 非 2xx 响应.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("content host responded %d", e.Code)
	}

	return fmt.Sprintf("content host responded %d: %s", e.Code, e.Message)
}

// IsConflict 判断是否为 409 冲突.
func IsConflict(err error) bool {
	var se *StatusError

	return errors.As(err, &se) && se.Code == http.StatusConflict
}

// FileContent 响应中的文件元数据.
type FileContent struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	HTMLURL     string `json:"html_url"`
	DownloadURL string `json:"download_url"`
}

type createFileRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
}

type createFileResponse struct {
	Content *FileContent `json:"content"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Client contents API 客户端.
type Client struct {
	apiURL string
	owner  string
	repo   string
	token  string
	doer   Doer
	cb     *gobreaker.CircuitBreaker
}

// Option 客户端选项.
type Option func(*Client)

// WithDoer 替换底层 HTTP 执行器.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithBreaker 为请求加上熔断，409 冲突不计为失败.
func WithBreaker(cfg configs.CircuitBreakerConfig) Option {
	return func(c *Client) {
		if !cfg.Enabled {
			return
		}

		c.cb = breaker.New("content-host", cfg, func(err error) bool {
			return err == nil || IsConflict(err)
		})
	}
}

// New 创建客户端，token 只来自配置.
func New(cfg *configs.ContentHostConfig, opts ...Option) *Client {
	c := &Client{
		apiURL: strings.TrimRight(cfg.APIURL, "/"),
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		token:  cfg.Token,
		doer:   http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Owner 返回仓库所有者.
func (c *Client) Owner() string { return c.owner }

// Repo 返回仓库名.
func (c *Client) Repo() string { return c.repo }

// CreateFile 在指定分支创建文件，content 必须已经是 base64 编码.
// 返回的 FileContent 可能缺少 SHA，由调用方判定完整性.
func (c *Client) CreateFile(ctx context.Context, path, message, content, branch string) (*FileContent, error) {
	if c.cb == nil {
		return c.createFile(ctx, path, message, content, branch)
	}

	out, err := c.cb.Execute(func() (any, error) {
		return c.createFile(ctx, path, message, content, branch)
	})
	if breaker.Rejected(err) {
		return nil, fmt.Errorf("%w: %w", ErrBreakerOpen, err)
	}

	if err != nil {
		return nil, err
	}

	fc, _ := out.(*FileContent)

	return fc, nil
}

func (c *Client) createFile(ctx context.Context, path, message, content, branch string) (*FileContent, error) {
	body, err := sonic.Marshal(createFileRequest{Message: message, Content: content, Branch: branch})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		se := &StatusError{Code: resp.StatusCode}

		var er errorResponse
		if sonic.Unmarshal(raw, &er) == nil && er.Message != "" {
			se.Message = er.Message
		} else if len(raw) > 0 {
			se.Message = string(raw[:min(len(raw), maxErrorBytes)])
		}

		return nil, se
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	var out createFileResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if out.Content == nil {
		return &FileContent{Path: path}, nil
	}

	return out.Content, nil
}

// contentsURL 拼接 contents 接口地址，路径逐段转义.
func (c *Client) contentsURL(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}

	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.apiURL, url.PathEscape(c.owner), url.PathEscape(c.repo), strings.Join(segs, "/"))
}

package authn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang-jwt/jwt/v5"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	nlog "github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// Doer 执行 HTTP 请求.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Hosted 托管认证服务客户端.
type Hosted struct {
	baseURL string
	anonKey string
	reset   string
	secret  []byte
	timeout time.Duration
	doer    Doer
	now     func() time.Time
}

// Option Hosted 选项.
type Option func(*Hosted)

// WithDoer 替换底层 HTTP 执行器.
func WithDoer(d Doer) Option {
	return func(h *Hosted) { h.doer = d }
}

// WithClock 替换令牌校验使用的时钟.
func WithClock(now func() time.Time) Option {
	return func(h *Hosted) { h.now = now }
}

// NewHosted 根据配置创建客户端.
func NewHosted(cfg configs.AuthConfig, opts ...Option) *Hosted {
	h := &Hosted{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		reset:   cfg.ResetRedirectURL,
		timeout: cfg.RequestTimeout,
		doer:    http.DefaultClient,
		now:     time.Now,
	}

	if cfg.JWTSecret != "" {
		h.secret = []byte(cfg.JWTSecret)
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *userResponse `json:"user"`
	// signup 在需要邮件确认时直接返回用户对象
	ID    string `json:"id"`
	Email string `json:"email"`
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type recoverRequest struct {
	Email string `json:"email"`
}

type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e providerError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}

	return ""
}

// Session 返回当前 context 中令牌对应的会话.
// 没有令牌或令牌无效、过期时返回 (nil, nil)；认证服务故障时返回错误.
func (h *Hosted) Session(ctx context.Context) (*Session, error) {
	token := TokenFrom(ctx)
	if token == "" {
		return nil, nil
	}

	if h.secret != nil {
		return h.verifyLocal(token), nil
	}

	if h.baseURL == "" {
		return nil, ErrNotConfigured
	}

	var u userResponse

	status, err := h.do(ctx, http.MethodGet, "/auth/v1/user", token, nil, &u)
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if u.ID == "" {
		return nil, nil
	}

	return &Session{UserID: u.ID, Email: u.Email, AccessToken: token}, nil
}

// verifyLocal 使用共享密钥校验 HS256 令牌.
func (h *Hosted) verifyLocal(token string) *Session {
	var claims accessClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return h.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(h.now),
	)
	if err != nil {
		nlog.Logger().Debug().Err(err).Msg("reject access token")
		return nil
	}

	if claims.Subject == "" {
		return nil
	}

	s := &Session{UserID: claims.Subject, Email: claims.Email, AccessToken: token}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}

	return s
}

// SignIn 使用邮箱密码登录.
func (h *Hosted) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if h.baseURL == "" {
		return nil, ErrNotConfigured
	}

	var out tokenResponse

	status, err := h.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "",
		credentials{Email: email, Password: password}, &out)
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	if err != nil {
		return nil, err
	}

	if out.AccessToken == "" || out.User == nil || out.User.ID == "" {
		return nil, fmt.Errorf("%w: sign-in response without session", ErrProvider)
	}

	return &Session{
		UserID:      out.User.ID,
		Email:       out.User.Email,
		AccessToken: out.AccessToken,
		ExpiresAt:   h.now().Add(time.Duration(out.ExpiresIn) * time.Second),
	}, nil
}

// SignUp 注册账号，返回新用户 ID.
func (h *Hosted) SignUp(ctx context.Context, email, password string, data map[string]any) (string, error) {
	if h.baseURL == "" {
		return "", ErrNotConfigured
	}

	var out tokenResponse

	if _, err := h.do(ctx, http.MethodPost, "/auth/v1/signup", "",
		credentials{Email: email, Password: password, Data: data}, &out); err != nil {
		return "", err
	}

	if out.User != nil && out.User.ID != "" {
		return out.User.ID, nil
	}

	if out.ID != "" {
		return out.ID, nil
	}

	return "", fmt.Errorf("%w: sign-up response without user", ErrProvider)
}

// Recover 请求发送重置密码邮件.
// 认证服务对未注册邮箱同样返回成功，调用方无法据此判断账号是否存在.
func (h *Hosted) Recover(ctx context.Context, email string) error {
	if h.baseURL == "" {
		return ErrNotConfigured
	}

	path := "/auth/v1/recover"
	if h.reset != "" {
		path += "?redirect_to=" + url.QueryEscape(h.reset)
	}

	status, err := h.do(ctx, http.MethodPost, path, "", recoverRequest{Email: email}, nil)
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	return err
}

// SignOut 注销当前 context 中的会话，没有令牌时不做任何事.
func (h *Hosted) SignOut(ctx context.Context) error {
	token := TokenFrom(ctx)
	if token == "" || h.baseURL == "" {
		return nil
	}

	status, err := h.do(ctx, http.MethodPost, "/auth/v1/logout", token, nil, nil)
	// 令牌已失效时视为已登出
	if status == http.StatusUnauthorized || status == http.StatusNotFound {
		return nil
	}

	return err
}

// do 发送请求并解码 2xx 响应，返回状态码（网络错误时为 0）.
func (h *Hosted) do(ctx context.Context, method, path, token string, in, out any) (int, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var body io.Reader

	if in != nil {
		raw, err := sonic.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}

		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if h.anonKey != "" {
		req.Header.Set("apikey", h.anonKey)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.doer.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: read response: %w", ErrProvider, err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		var pe providerError
		_ = sonic.Unmarshal(raw, &pe)

		msg := pe.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}

		return resp.StatusCode, fmt.Errorf("%w: %s %s responded %d: %s", ErrProvider, method, path, resp.StatusCode, msg)
	}

	if out != nil && len(raw) > 0 {
		if err := sonic.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: decode response: %w", ErrProvider, err)
		}
	}

	return resp.StatusCode, nil
}

// IsProviderError 判断是否为认证服务故障.
func IsProviderError(err error) bool {
	return errors.Is(err, ErrProvider) && !errors.Is(err, ErrInvalidCredentials)
}

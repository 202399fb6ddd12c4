// Package authn 对接托管认证服务（GoTrue 兼容接口），提供会话解析、登录、注册与登出.
//
// 会话是环境状态：中间件把请求携带的访问令牌放入 context，
// 之后任何层都可以通过 Hosted.Session(ctx) 得到当前用户.
package authn

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials 邮箱或密码错误.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrProvider 认证服务不可用或返回了意外响应.
	ErrProvider = errors.New("auth provider error")
	// ErrRateLimited 认证服务拒绝了过于频繁的请求.
	ErrRateLimited = errors.New("auth provider rate limited")
	// ErrNotConfigured 未配置认证服务地址.
	ErrNotConfigured = errors.New("auth provider not configured")
)

// Session 已验证的会话.
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type tokenKey struct{}

// WithToken 把访问令牌放入 context，空令牌不写入.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}

	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom 读取 context 中的访问令牌.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

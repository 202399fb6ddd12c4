// Package admin 实现管理员授权检查：会话存在且对应的 profile 带有管理员标记.
//
// 每一次特权操作都必须重新调用 Gate.Verify，结果不做任何缓存.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/authn"
	nlog "github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
)

var (
	// ErrUnauthenticated 当前没有有效会话.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden 会话有效但不是管理员.
	ErrForbidden = errors.New("forbidden: admin privileges required")
	// ErrProfileLookup 读取 profile 失败.
	ErrProfileLookup = errors.New("profile lookup failed")
)

// Sessions 认证协作方.
type Sessions interface {
	Session(ctx context.Context) (*authn.Session, error)
	SignOut(ctx context.Context) error
}

// Profiles profile 协作方.
type Profiles interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Principal 已验证的调用主体.
type Principal struct {
	UserID  string
	IsAdmin bool
	// Service 非空表示由服务端发起的操作，例如求职简历上传.
	Service string
}

// Service 返回服务端发起操作使用的主体，id 通常来自 auth.service_user_id.
func Service(id string) Principal {
	return Principal{UserID: id, IsAdmin: true, Service: id}
}

// Gate 管理员授权检查.
type Gate struct {
	sessions Sessions
	profiles Profiles
}

// NewGate 创建授权检查.
func NewGate(sessions Sessions, profiles Profiles) *Gate {
	return &Gate{sessions: sessions, profiles: profiles}
}

// Verify 校验 context 中的会话是否属于管理员.
//
// 无会话返回 ErrUnauthenticated，不登出；profile 读取失败返回 ErrProfileLookup 并携带原因；
// 非管理员返回 ErrForbidden，并强制登出一次.
func (g *Gate) Verify(ctx context.Context) (Principal, error) {
	logger := nlog.Component("admin-gate")

	sess, err := g.sessions.Session(ctx)
	if err != nil {
		g.record("session_error")
		logger.Warn().Err(err).Msg("session lookup failed")

		return Principal{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if sess == nil || sess.UserID == "" {
		g.record("unauthenticated")
		return Principal{}, ErrUnauthenticated
	}

	isAdmin, err := g.profiles.IsAdmin(ctx, sess.UserID)
	if err != nil {
		g.record("profile_error")
		logger.Error().Err(err).Str("user_id", sess.UserID).Msg("profile lookup failed")

		return Principal{}, fmt.Errorf("%w: %w", ErrProfileLookup, err)
	}

	if !isAdmin {
		g.record("forbidden")

		if err := g.sessions.SignOut(ctx); err != nil {
			logger.Warn().Err(err).Str("user_id", sess.UserID).Msg("forced sign-out failed")
		}

		return Principal{}, ErrForbidden
	}

	g.record("granted")

	return Principal{UserID: sess.UserID, IsAdmin: true}, nil
}

func (g *Gate) record(outcome string) {
	metrics.GateDecisions.WithLabelValues(outcome).Inc()
}

type principalKey struct{}

// WithPrincipal 把已验证的主体放入 context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom 读取 context 中的主体.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/authn"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/rule"
)

// Identity 托管认证操作.
type Identity interface {
	admin.Sessions
	SignIn(ctx context.Context, email, password string) (*authn.Session, error)
	SignUp(ctx context.Context, email, password string, data map[string]any) (string, error)
	Recover(ctx context.Context, email string) error
}

// ProfileWriter 写入 profile.
type ProfileWriter interface {
	Upsert(ctx context.Context, userID string, isAdmin bool) error
}

// Credentials 邮箱密码.
type Credentials struct {
	Email    string `rule:"required,email"`
	Password string `rule:"required,min=6"`
}

// PasswordReset 重置密码请求.
type PasswordReset struct {
	Email string `rule:"required,email"`
}

// AccountService 管理员账号.
type AccountService struct {
	identity Identity
	profiles ProfileWriter
	gate     *admin.Gate
}

// NewAccountService 创建服务.
func NewAccountService(identity Identity, profiles ProfileWriter, gate *admin.Gate) *AccountService {
	return &AccountService{identity: identity, profiles: profiles, gate: gate}
}

// Login 登录并立即校验管理员身份，非管理员会被登出.
func (s *AccountService) Login(ctx context.Context, in Credentials) (*authn.Session, error) {
	if err := rule.ValidateStruct(&in); err != nil {
		return nil, invalid(err)
	}

	sess, err := s.identity.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	if _, err := s.gate.Verify(authn.WithToken(ctx, sess.AccessToken)); err != nil {
		return nil, err
	}

	return sess, nil
}

// RegisterAdmin 注册新的管理员账号.
func (s *AccountService) RegisterAdmin(ctx context.Context, p admin.Principal, in Credentials) (string, error) {
	if !p.IsAdmin {
		return "", admin.ErrForbidden
	}

	if err := rule.ValidateStruct(&in); err != nil {
		return "", invalid(err)
	}

	userID, err := s.identity.SignUp(ctx, in.Email, in.Password, map[string]any{"is_admin": true})
	if err != nil {
		return "", err
	}

	if err := s.profiles.Upsert(ctx, userID, true); err != nil {
		return "", fmt.Errorf("grant admin to %s: %w", userID, err)
	}

	l := log.Component("account")
	l.Info().Str("user_id", userID).Str("by", p.UserID).Msg("admin registered")

	return userID, nil
}

// ResetPassword 请求发送重置密码邮件，未注册的邮箱同样返回成功.
func (s *AccountService) ResetPassword(ctx context.Context, in PasswordReset) error {
	in.Email = strings.TrimSpace(in.Email)
	if err := rule.ValidateStruct(&in); err != nil {
		return invalid(err)
	}

	if err := s.identity.Recover(ctx, in.Email); err != nil {
		return err
	}

	l := log.Component("account")
	l.Info().Msg("password reset requested")

	return nil
}

// Logout 注销当前会话.
func (s *AccountService) Logout(ctx context.Context) error {
	return s.identity.SignOut(ctx)
}

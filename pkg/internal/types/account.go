package types

import "time"

// CredentialsRequest 邮箱密码.
type CredentialsRequest struct {
	Email    string `json:"email"    rule:"required,email"`
	Password string `json:"password" rule:"required,min=6"`
}

// PasswordResetRequest 重置密码邮箱.
type PasswordResetRequest struct {
	Email string `json:"email" rule:"required,email"`
}

// LoginResponse 登录成功后返回的会话.
type LoginResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email,omitempty"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
}

// RegisterResponse 新管理员 id.
type RegisterResponse struct {
	UserID string `json:"user_id"`
}

package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/types"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// setSessionCookie 写入或清除会话 cookie，maxAge < 0 表示清除.
func setSessionCookie(c *gin.Context, token string, maxAge int) {
	cfg := configs.GetConfig()
	if cfg == nil || cfg.Auth.SessionCookie == "" {
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Auth.SessionCookie, token, maxAge, "/", "", !cfg.Server.Debug, true)
}

// Login 管理员登录，非管理员账号会被立即登出.
//
//	@Summary		管理员登录
//	@Description	托管认证登录后立即校验管理员标记，成功时写入会话 cookie
//	@Tags			账号
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		types.CredentialsRequest	true	"邮箱密码"
//	@Success		200			{object}	types.LoginResponse			"会话"
//	@Failure		401			{object}	types.ErrorResponse			"凭证错误"
//	@Failure		403			{object}	types.ErrorResponse			"非管理员"
//	@Router			/api/v1/auth/login [post]
func Login(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, l, bindError(err))
		return
	}

	sess, err := svc.Account.Login(c.Request.Context(), service.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(c, l, err)
		return
	}

	maxAge := 0
	if !sess.ExpiresAt.IsZero() {
		maxAge = int(time.Until(sess.ExpiresAt).Seconds())
	}

	setSessionCookie(c, sess.AccessToken, maxAge)

	l.Info().Str("user_id", sess.UserID).Msg("admin signed in")
	c.JSON(http.StatusOK, types.LoginResponse{
		UserID:      sess.UserID,
		Email:       sess.Email,
		AccessToken: sess.AccessToken,
		ExpiresAt:   sess.ExpiresAt,
	})
}

// RequestPasswordReset 发送重置密码邮件.
//
//	@Summary		重置密码
//	@Description	无论邮箱是否注册都返回 202
//	@Tags			账号
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.PasswordResetRequest	true	"邮箱"
//	@Success		202		{object}	types.MessageResponse		"已受理"
//	@Failure		400		{object}	types.ErrorResponse			"请求参数错误"
//	@Failure		429		{object}	types.ErrorResponse			"请求过于频繁"
//	@Router			/api/v1/auth/password-reset [post]
func RequestPasswordReset(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	var req types.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, l, bindError(err))
		return
	}

	if err := svc.Account.ResetPassword(c.Request.Context(), service.PasswordReset{Email: req.Email}); err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusAccepted, types.MessageResponse{Message: "if the address belongs to an account, a reset email has been sent"})
}

// Logout 注销当前会话.
//
//	@Summary	登出
//	@Tags		账号
//	@Produce	json
//	@Success	200	{object}	types.MessageResponse	"已登出"
//	@Router		/api/v1/admin/logout [post]
func Logout(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	if err := svc.Account.Logout(c.Request.Context()); err != nil {
		writeError(c, l, err)
		return
	}

	setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, types.MessageResponse{Message: "signed out"})
}

// RegisterAdmin 注册新的管理员账号.
//
//	@Summary	注册管理员
//	@Tags		账号
//	@Accept		json
//	@Produce	json
//	@Param		credentials	body		types.CredentialsRequest	true	"邮箱密码"
//	@Success	201			{object}	types.RegisterResponse		"新管理员"
//	@Failure	400			{object}	types.ErrorResponse			"请求参数错误"
//	@Router		/api/v1/admin/register [post]
func RegisterAdmin(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, l, bindError(err))
		return
	}

	id, err := svc.Account.RegisterAdmin(c.Request.Context(), principal(c), service.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusCreated, types.RegisterResponse{UserID: id})
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/authn"
)

// SessionMiddleware 把请求携带的访问令牌放入 request context.
// Authorization 请求头优先，其次是会话 cookie；跳过路径不读取任何令牌.
func SessionMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hasAnyPrefix(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" && conf.SessionCookie != "" {
			token, _ = c.Cookie(conf.SessionCookie)
		}

		if token != "" {
			c.Request = c.Request.WithContext(authn.WithToken(c.Request.Context(), token))
		}

		c.Next()
	}
}

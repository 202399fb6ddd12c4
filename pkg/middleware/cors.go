package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// CORSMiddleware 跨域配置. 列出具体来源时允许携带会话 cookie，
// 来源为空、包含 "*" 或处于调试模式时放行全部来源且不带凭据.
func CORSMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "Authorization", BypassHeader, "If-None-Match"},
		ExposeHeaders: []string{
			"X-Cache", "Age", "ETag", "Retry-After",
		},
		MaxAge: cfg.CORSMaxAge,
	}

	if cfg.Debug || len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*") {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = cfg.AllowOrigins
		conf.AllowCredentials = true
	}

	return cors.New(conf)
}

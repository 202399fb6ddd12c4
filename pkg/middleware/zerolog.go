package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	ctxPkg "github.com/datalytikasales/smittan-vibrant-ventures/pkg/context"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// GinLoggerMiddleware 每个请求一条访问日志，5xx 记为 error，4xx 记为 warn.
// 健康检查等 quiet 路径只在 debug 级别输出.
func GinLoggerMiddleware(quiet ...string) gin.HandlerFunc {
	base := log.Component("http")

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		lg := ctxPkg.WithTraceContext(c.Request.Context(), base)

		var ev *zerolog.Event

		switch {
		case status >= http.StatusInternalServerError:
			ev = lg.Error()
		case status >= http.StatusBadRequest:
			ev = lg.Warn()
		case hasAnyPrefix(c.Request.URL.Path, quiet):
			ev = lg.Debug()
		default:
			ev = lg.Info()
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ev = ev.
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("bytes", c.Writer.Size()).
			Str("client_ip", c.ClientIP())

		if p, ok := admin.PrincipalFrom(c.Request.Context()); ok {
			ev = ev.Str("user_id", p.UserID)
		}

		if len(c.Errors) > 0 {
			ev = ev.Str("error", c.Errors.String())
		}

		ev.Msg("HTTP request")
	}
}

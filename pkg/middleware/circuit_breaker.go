package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/breaker"
)

// errUpstream 标记一次以 5xx 结束的请求.
var errUpstream = errors.New("request ended with server error")

// breakerExempt 不经过熔断的探活与指标路径.
var breakerExempt = []string{"/api/v1/health", "/metrics"}

// CircuitBreakerMiddleware 5xx 比例过高时对后续请求直接返回 503，直到半开探测成功.
func CircuitBreakerMiddleware(cfg configs.CircuitBreakerConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	cb := breaker.New("http", cfg, nil)
	retryAfter := strconv.Itoa(max(int(cfg.OpenFor.Seconds()), 1))

	return func(c *gin.Context) {
		if hasAnyPrefix(c.Request.URL.Path, breakerExempt) {
			c.Next()
			return
		}

		_, err := cb.Execute(func() (any, error) {
			c.Next()

			if c.Writer.Status() >= http.StatusInternalServerError {
				return nil, errUpstream
			}

			return nil, nil
		})

		if breaker.Rejected(err) {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
		}
	}
}

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
)

// PrometheusMiddleware 按路由模板记录请求数与耗时，未匹配的路由归为 unmatched.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.InFlight.Inc()
		defer metrics.InFlight.Dec()

		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.RequestCounter.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

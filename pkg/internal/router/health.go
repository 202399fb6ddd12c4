package router

import (
	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/handle"
)

// RegisterHealthCheckRoute 注册存活探针与各依赖的健康检查.
func RegisterHealthCheckRoute(g *gin.RouterGroup) {
	h := g.Group("/health")
	{
		h.GET("/live", handle.HealthLive)
		h.GET("/ready", handle.HealthReady)
		h.GET("/db", handle.HealthDB)
		h.GET("/s3", handle.HealthS3)
		h.GET("/kv", handle.HealthKV)
		h.GET("/mq", handle.HealthMQ)
	}
}

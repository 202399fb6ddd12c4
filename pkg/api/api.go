// Package api 把所有路由组挂载到 gin 引擎.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/router"
)

// BasePath 所有接口的前缀.
const BasePath = "/api/v1"

// RegisterGroup 在 BasePath 下注册健康检查、公开接口与管理接口，并在调试模式下挂载 Swagger.
func RegisterGroup(e *gin.Engine, opts router.Options) *gin.Engine {
	g := e.Group(BasePath)

	router.RegisterHealthCheckRoute(g)
	router.Register(g, opts)
	router.RegisterSwaggerRoute(e)

	return e
}

package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/datalytikasales/smittan-vibrant-ventures/docs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// RegisterSwaggerRoute 调试模式下在 /swagger 提供接口文档.
// Host 留空，文档页面使用当前访问的地址.
func RegisterSwaggerRoute(r *gin.Engine) {
	if !configs.GetConfig().Server.Debug {
		return
	}

	docs.SwaggerInfo.Host = ""
	docs.SwaggerInfo.Version = configs.AppVersion

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.DocExpansion("none"),
		ginSwagger.PersistAuthorization(true),
	))
}

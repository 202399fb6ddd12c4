// Package router 把处理器绑定到 gin 路由组.
package router

import (
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/cache"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/handle"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/middleware"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/rule"
)

const (
	// careersCacheTTL 公开职位接口的响应缓存时间.
	careersCacheTTL = 15 * time.Second
	// careersCachePrefix 职位响应缓存的键前缀，管理端修改职位后按前缀清除.
	careersCachePrefix = "careers"
)

// Options 路由依赖.
type Options struct {
	Gate      middleware.Verifier
	Cache     *cache.Cache // 可以为 nil，为 nil 时不启用响应缓存
	RateLimit configs.RateLimitConfig
}

// Register 在 /api/v1 下注册公开路由与管理路由：
//
//	GET    /gallery                    -> ListProjects
//	GET    /gallery/:id                -> GetProject
//	GET    /company-profile            -> GetCompanyProfile
//	GET    /careers                    -> ListOpenJobs
//	GET    /careers/:id                -> GetJob
//	POST   /careers/:id/apply          -> ApplyForJob
//	POST   /contact                    -> SubmitContact
//	POST   /auth/login                 -> Login
//	POST   /auth/password-reset        -> RequestPasswordReset
//	/admin/...                         -> 见 registerAdmin
func Register(api *gin.RouterGroup, opts Options) {
	// gin 绑定与业务校验共用 rule 标签
	rule.Engine()

	reads := api.Group("", gzip.Gzip(gzip.DefaultCompression))
	{
		reads.GET("/gallery", handle.ListProjects)
		reads.GET("/gallery/:id", handle.GetProject)
		reads.GET("/company-profile", handle.GetCompanyProfile)

		careers := reads.Group("/careers", middleware.ResponseCache(middleware.ResponseCacheConfig{
			Cache:  opts.Cache,
			Prefix: careersCachePrefix,
			TTL:    careersCacheTTL,
			// 带令牌的请求不读写共享缓存
			Skipper: func(c *gin.Context) bool { return c.GetHeader("Authorization") != "" },
		}))

		careers.GET("", handle.ListOpenJobs)
		careers.GET("/:id", handle.GetJob)
	}

	api.POST("/careers/:id/apply", middleware.RateLimitMiddleware("apply", opts.RateLimit), handle.ApplyForJob)
	api.POST("/contact", middleware.RateLimitMiddleware("contact", opts.RateLimit), handle.SubmitContact)
	api.POST("/auth/login", middleware.RateLimitMiddleware("login", opts.RateLimit), handle.Login)
	api.POST("/auth/password-reset", middleware.RateLimitMiddleware("password_reset", opts.RateLimit), handle.RequestPasswordReset)

	registerAdmin(api.Group("/admin", middleware.RequireAdmin(opts.Gate)), opts)
}

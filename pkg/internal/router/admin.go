package router

import (
	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/handle"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/middleware"
)

// registerAdmin 注册管理路由，组上已挂载 RequireAdmin.
func registerAdmin(g *gin.RouterGroup, opts Options) {
	g.POST("/uploads", handle.AdminUpload)

	g.POST("/gallery", handle.CreateProject)
	g.DELETE("/gallery/:id", handle.DeleteProject)

	g.POST("/company-profile", handle.UploadCompanyProfile)

	jobs := g.Group("/jobs", middleware.PurgeResponseCache(opts.Cache, careersCachePrefix))
	{
		jobs.GET("", handle.ListJobs)
		jobs.POST("", handle.CreateJob)
		jobs.PUT("/:id", handle.UpdateJob)
		jobs.DELETE("/:id", handle.DeleteJob)
		jobs.GET("/:id/applications", handle.ListApplications)
	}

	g.GET("/leads", handle.ListLeads)

	g.POST("/register", handle.RegisterAdmin)
	g.POST("/logout", handle.Logout)

	sched := g.Group("/scheduler/jobs")
	{
		sched.GET("", handle.SchedulerJobs)
		sched.POST("/stop", handle.SchedulerStopJobs)
		sched.POST("/:id/run", handle.SchedulerRunJob)
		sched.DELETE("/:id", handle.SchedulerRemoveJob)
	}
}

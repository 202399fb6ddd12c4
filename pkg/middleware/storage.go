package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/datalytikasales/smittan-vibrant-ventures/pkg/context"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/scheduler"
)

// inject 返回把值写入 request context 的中间件.
func inject(with func(context.Context) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(with(c.Request.Context()))
		c.Next()
	}
}

// StorageMiddleware 注入存储资源，供健康检查使用.
func StorageMiddleware(manager *storage.Manager) gin.HandlerFunc {
	return inject(func(ctx context.Context) context.Context {
		return ctxPkg.WithStorageManager(ctx, manager)
	})
}

// ServicesMiddleware 注入业务服务.
func ServicesMiddleware(s *service.Services) gin.HandlerFunc {
	return inject(func(ctx context.Context) context.Context {
		return service.WithServices(ctx, s)
	})
}

type schedulerKey struct{}

// SchedulerMiddleware 注入定时任务调度器，供管理接口使用.
func SchedulerMiddleware(sched *scheduler.Scheduler) gin.HandlerFunc {
	return inject(func(ctx context.Context) context.Context {
		return context.WithValue(ctx, schedulerKey{}, sched)
	})
}

// GetScheduler 取出调度器，未注入时为 nil.
func GetScheduler(c *gin.Context) *scheduler.Scheduler {
	sched, _ := c.Request.Context().Value(schedulerKey{}).(*scheduler.Scheduler)
	return sched
}

// Package app 提供应用程序的初始化和配置功能.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/api"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/cache"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/jobs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/router"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/middleware"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/scheduler"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/tracing"
)

// shutdownGrace 优雅退出等待时间.
const shutdownGrace = 15 * time.Second

// responseCacheNamespace HTTP 响应缓存键前缀，与业务缓存分开.
const responseCacheNamespace = "smittan:http"

type App struct {
	Engine *gin.Engine

	config    *configs.AppConfig
	manager   *storage.Manager
	services  *service.Services
	scheduler *scheduler.Scheduler
}

// NewApp 读取配置并装配存储、服务、定时任务与路由.
func NewApp(configPath string) (*App, error) {
	if err := configs.InitConfig(configPath); err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}

	config := configs.GetConfig()
	log.Init()

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	if err := tracing.InitTracer(config.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	manager, err := storage.Init(context.Background())
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	services, err := service.New(config, manager)
	if err != nil {
		_ = manager.Close()
		return nil, err
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	if err := jobs.RegisterCronJobs(sched, config, manager, services); err != nil {
		_ = sched.Shutdown()
		_ = manager.Close()

		return nil, fmt.Errorf("register cron jobs: %w", err)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.CORSMiddleware(config.Server),
		middleware.GinLoggerMiddleware(api.BasePath+"/health"),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.StorageMiddleware(manager),
		middleware.ServicesMiddleware(services),
		middleware.SchedulerMiddleware(sched),
		middleware.SessionMiddleware(config.Auth),
	)

	opts := router.Options{Gate: services.Gate, RateLimit: config.RateLimit}
	if manager.KV != nil {
		opts.Cache = cache.NewCache(manager.KV, cache.WithNamespace(responseCacheNamespace))
	}

	api.RegisterGroup(engine, opts)

	if err := metrics.StartMetricsServer(config.Metrics, engine); err != nil {
		l.Warn().Err(err).Msg("metrics endpoint not mounted")
	}

	return &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		services:  services,
		scheduler: sched,
	}, nil
}

// Run 启动定时任务与 HTTP 服务，ctx 取消后优雅退出.
func (a *App) Run(ctx context.Context) error {
	l := log.Logger()

	sc := a.config.Server
	srv := &http.Server{
		Addr:              net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port)),
		Handler:           a.Engine,
		ReadHeaderTimeout: sc.ReadHeaderTimeout,
		ReadTimeout:       sc.ReadTimeout,
		WriteTimeout:      sc.WriteTimeout,
		IdleTimeout:       sc.IdleTimeout,
	}

	a.scheduler.Start()

	errCh := make(chan error, 1)

	go func() {
		l.Info().Str("addr", srv.Addr).Msg("HTTP server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	var serveErr error

	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	grace := sc.ShutdownTimeout
	if grace <= 0 {
		grace = shutdownGrace
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	l.Info().Msg("shutting down")

	return errors.Join(
		serveErr,
		srv.Shutdown(shutdownCtx),
		a.scheduler.Shutdown(),
		tracing.ShutdownTracer(shutdownCtx),
		a.manager.Close(),
	)
}

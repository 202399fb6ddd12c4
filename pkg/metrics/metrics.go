// Package metrics 定义 Prometheus 指标：HTTP 请求、上传管道、管理员校验、限流与定时任务.
//
// 指标在包初始化时创建，InitMetrics 之前的计数不会丢失，只是尚未暴露.
//
//	metrics.UploadTotal.WithLabelValues("object_store", "ok").Inc()
package metrics

import (
	"net/http/pprof"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

const namespace = "smittan"

var (
	// RequestCounter 按路由模板统计的请求数.
	RequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "http", Name: "requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// InFlight 正在处理的请求数.
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "http", Name: "in_flight_requests",
		Help: "Requests currently being served.",
	})

	// RateLimited 被限流拒绝的请求数.
	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "http", Name: "rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	}, []string{"scope"})

	// UploadTotal 上传结果，result 为 ok 或错误类别.
	UploadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "upload", Name: "total",
		Help: "Uploads by backend and result.",
	}, []string{"backend", "result"})

	// UploadDuration 单次上传耗时，含重试.
	UploadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "upload", Name: "duration_seconds",
		Help:    "Upload latency including retries.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"backend"})

	// UploadAttempts 内容托管后端每次尝试的结果.
	UploadAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "upload", Name: "attempts_total",
		Help: "Content host upload attempts by outcome.",
	}, []string{"backend", "outcome"})

	// OrphanObjects 最近一次审计发现的未被引用对象数.
	OrphanObjects = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "upload", Name: "orphan_objects",
		Help: "Stored objects not referenced by any record at the last audit.",
	})

	// GateDecisions 管理员校验结果.
	GateDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "admin", Name: "gate_decisions_total",
		Help: "Admin gate decisions by outcome.",
	}, []string{"outcome"})

	// JobRuns 定时任务执行次数.
	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "scheduler", Name: "job_runs_total",
		Help: "Scheduled job executions by result.",
	}, []string{"job", "result"})

	// KVOps 键值存储操作，result 为 hit、miss、ok 或 error.
	KVOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "kv", Name: "ops_total",
		Help: "Key-value store operations by backend, operation and result.",
	}, []string{"backend", "op", "result"})

	registry = prometheus.NewRegistry()
	initOnce sync.Once
)

// InitMetrics 把指标注册到本包的注册表，重复调用只注册一次.
func InitMetrics(cfg configs.MetricsConfig) error {
	if !cfg.Enabled {
		return nil
	}

	var err error

	initOnce.Do(func() {
		reg := prometheus.WrapRegistererWith(cfg.Labels, registry)

		cs := []prometheus.Collector{
			RequestCounter, RequestDuration, InFlight, RateLimited,
			UploadTotal, UploadDuration, UploadAttempts, OrphanObjects,
			GateDecisions, JobRuns, KVOps,
		}
		if cfg.RuntimeMetrics {
			cs = append(cs, collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		}

		for _, c := range cs {
			if err = reg.Register(c); err != nil {
				return
			}
		}
	})

	return err
}

// StartMetricsServer 在引擎上挂载指标端点，Pprof 开启时同时挂载 /debug/pprof.
func StartMetricsServer(cfg configs.MetricsConfig, engine *gin.Engine) error {
	if !cfg.Enabled {
		return nil
	}

	engine.GET(cfg.Path, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		Registry:          registry,
		EnableOpenMetrics: true,
	})))

	if cfg.Pprof {
		g := engine.Group("/debug/pprof")
		g.GET("/", gin.WrapF(pprof.Index))
		g.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		g.GET("/profile", gin.WrapF(pprof.Profile))
		g.GET("/symbol", gin.WrapF(pprof.Symbol))
		g.GET("/trace", gin.WrapF(pprof.Trace))
		g.GET("/:name", func(c *gin.Context) {
			pprof.Handler(c.Param("name")).ServeHTTP(c.Writer, c.Request)
		})
	}

	return nil
}

// Registry 返回本包的注册表，测试中用于读取指标.
func Registry() *prometheus.Registry {
	return registry
}

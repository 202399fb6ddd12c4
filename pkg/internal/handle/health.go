package handle

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	ctxPkg "github.com/datalytikasales/smittan-vibrant-ventures/pkg/context"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage"
)

const probeTimeout = 2 * time.Second

const healthProbeKey = "health:probe"

// errDisabled 表示组件在当前配置下不启用，不计为不健康.
var errDisabled = errors.New("disabled")

// ProbeResult 单个依赖的检查结果.
type ProbeResult struct {
	Component string `json:"component"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
}

// probe 检查一个依赖，返回附加说明.
type probe func(ctx context.Context, mgr *storage.Manager) (string, error)

var probes = map[string]probe{
	"db": func(ctx context.Context, mgr *storage.Manager) (string, error) {
		if mgr.DB == nil {
			return "", errors.New("db client not initialized")
		}

		return "", mgr.DB.HealthCheck(ctx)
	},
	"s3": func(ctx context.Context, mgr *storage.Manager) (string, error) {
		if mgr.S3 == nil && mgr.ContentHost != nil {
			return "", errDisabled
		}

		bucket := mgr.UploadBucket()
		if bucket == nil {
			return "", errors.New("s3 client not initialized")
		}

		ok, err := mgr.S3.BucketExists(ctx, bucket.Name())
		if err == nil && !ok {
			err = errors.New("upload bucket does not exist")
		}

		return bucket.Name(), err
	},
	"kv": func(ctx context.Context, mgr *storage.Manager) (string, error) {
		if mgr.KV == nil {
			return "", errors.New("kv client not initialized")
		}

		_, err := mgr.KV.Exists(ctx, healthProbeKey)

		return string(mgr.KV.Type), err
	},
	"mq": func(ctx context.Context, mgr *storage.Manager) (string, error) {
		if mgr.MQ == nil {
			return "", errors.New("mq client not initialized")
		}

		return string(mgr.MQ.Type), mgr.MQ.HealthCheck(ctx)
	},
}

func runProbe(ctx context.Context, name string, mgr *storage.Manager) ProbeResult {
	res := ProbeResult{Component: name, Status: "ok"}

	if mgr == nil {
		res.Status, res.Error = "unhealthy", "storage not initialized"
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	detail, err := probes[name](ctx, mgr)
	res.Detail = detail

	switch {
	case errors.Is(err, errDisabled):
		res.Status = "disabled"
	case err != nil:
		res.Status, res.Error = "unhealthy", err.Error()
	}

	return res
}

func probeStatus(res ProbeResult) int {
	if res.Status == "unhealthy" {
		return http.StatusServiceUnavailable
	}

	return http.StatusOK
}

func componentHealth(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := runProbe(c.Request.Context(), name, ctxPkg.GetManager(c.Request.Context()))
		c.JSON(probeStatus(res), res)
	}
}

// HealthLive 存活探针，不访问任何依赖.
//
//	@Summary	存活探针
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/api/v1/health/live [get]
func HealthLive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": configs.AppVersion})
}

// HealthReady 就绪探针，并行检查全部依赖，任一不健康返回 503.
//
//	@Summary	就绪探针
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Failure	503	{object}	map[string]any
//	@Router		/api/v1/health/ready [get]
func HealthReady(c *gin.Context) {
	mgr := ctxPkg.GetManager(c.Request.Context())
	names := []string{"db", "s3", "kv", "mq"}
	results := make([]ProbeResult, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Go(func() { results[i] = runProbe(c.Request.Context(), name, mgr) })
	}
	wg.Wait()

	status, overall := http.StatusOK, "ok"
	for _, r := range results {
		if probeStatus(r) != http.StatusOK {
			status, overall = http.StatusServiceUnavailable, "unhealthy"
		}
	}

	c.JSON(status, gin.H{"status": overall, "components": results})
}

// HealthDB 数据库健康检查.
//
//	@Summary	数据库健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	ProbeResult
//	@Failure	503	{object}	ProbeResult
//	@Router		/api/v1/health/db [get]
func HealthDB(c *gin.Context) { componentHealth("db")(c) }

// HealthS3 对象存储健康检查，上传后端为内容托管时返回 disabled.
//
//	@Summary	对象存储健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	ProbeResult
//	@Failure	503	{object}	ProbeResult
//	@Router		/api/v1/health/s3 [get]
func HealthS3(c *gin.Context) { componentHealth("s3")(c) }

// HealthKV 键值存储健康检查.
//
//	@Summary	键值存储健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	ProbeResult
//	@Failure	503	{object}	ProbeResult
//	@Router		/api/v1/health/kv [get]
func HealthKV(c *gin.Context) { componentHealth("kv")(c) }

// HealthMQ 消息队列健康检查.
//
//	@Summary	消息队列健康检查
//	@Tags		健康检查
//	@Produce	json
//	@Success	200	{object}	ProbeResult
//	@Failure	503	{object}	ProbeResult
//	@Router		/api/v1/health/mq [get]
func HealthMQ(c *gin.Context) { componentHealth("mq")(c) }

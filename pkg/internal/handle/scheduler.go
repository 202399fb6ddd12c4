package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/middleware"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/scheduler"
)

var errSchedulerMissing = errors.New("scheduler not running")

func schedulerFrom(c *gin.Context) (*scheduler.Scheduler, bool) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errSchedulerMissing.Error()})
		return nil, false
	}

	return sched, true
}

// schedulerError 任务不存在返回 404，其余 500.
func schedulerError(c *gin.Context, op, ref string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, scheduler.ErrJobNotFound) {
		status = http.StatusNotFound
	}

	log.Logger().Warn().Err(err).Str("job", ref).Str("op", op).Msg("scheduler operation failed")
	c.JSON(status, gin.H{"error": err.Error()})
}

// SchedulerJobs 返回所有定时任务信息.
//
//	@Summary	定时任务列表
//	@Tags		定时任务
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Router		/api/v1/admin/scheduler/jobs [get]
func SchedulerJobs(c *gin.Context) {
	sched, ok := schedulerFrom(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": sched.Jobs()})
}

// SchedulerRunJob 立即执行一次任务.
//
//	@Summary	立即执行任务
//	@Tags		定时任务
//	@Produce	json
//	@Param		id	path		string	true	"任务名称或 ID"
//	@Success	202	{object}	types.MessageResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/v1/admin/scheduler/jobs/{id}/run [post]
func SchedulerRunJob(c *gin.Context) {
	sched, ok := schedulerFrom(c)
	if !ok {
		return
	}

	ref := c.Param("id")
	if err := sched.RunNow(ref); err != nil {
		schedulerError(c, "run", ref, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "job triggered"})
}

// SchedulerStopJobs 暂停全部调度.
//
//	@Summary	暂停全部任务
//	@Tags		定时任务
//	@Produce	json
//	@Success	200	{object}	types.MessageResponse
//	@Router		/api/v1/admin/scheduler/jobs/stop [post]
func SchedulerStopJobs(c *gin.Context) {
	sched, ok := schedulerFrom(c)
	if !ok {
		return
	}

	if err := sched.StopJobs(); err != nil {
		schedulerError(c, "stop", "*", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "jobs stopped"})
}

// SchedulerRemoveJob 删除任务.
//
//	@Summary	删除任务
//	@Tags		定时任务
//	@Produce	json
//	@Param		id	path		string	true	"任务名称或 ID"
//	@Success	200	{object}	types.MessageResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/v1/admin/scheduler/jobs/{id} [delete]
func SchedulerRemoveJob(c *gin.Context) {
	sched, ok := schedulerFrom(c)
	if !ok {
		return
	}

	ref := c.Param("id")
	if err := sched.Remove(ref); err != nil {
		schedulerError(c, "remove", ref, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "job removed"})
}

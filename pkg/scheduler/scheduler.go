// Package scheduler 在 gocron/v2 之上维护按名称索引的后台任务及其最近一次执行状态.
package scheduler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/metrics"
)

var (
	// ErrJobNotFound 任务不存在.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobExists 同名任务已注册.
	ErrJobExists = errors.New("job already registered")
)

// JobStatus 任务状态.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled"
	StatusRunning   JobStatus = "running"
	StatusError     JobStatus = "error"
)

// JobFunc 任务函数，ctx 在调度器关闭时取消.
type JobFunc func(ctx context.Context) error

// JobInfo 任务快照，供管理接口展示.
type JobInfo struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	CronExpr    string        `json:"cron_expr"`
	NextRun     time.Time     `json:"next_run,omitzero"`
	LastRun     time.Time     `json:"last_run,omitzero"`
	LastSuccess time.Time     `json:"last_success,omitzero"`
	LastElapsed time.Duration `json:"last_elapsed_ns,omitempty"`
	Runs        int           `json:"runs"`
	Status      JobStatus     `json:"status"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type entry struct {
	job  gocron.Job
	info JobInfo
}

// Scheduler 包装 gocron.Scheduler.
type Scheduler struct {
	cron   gocron.Scheduler
	logger zerolog.Logger

	mu   sync.RWMutex
	jobs map[string]*entry

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler 创建调度器，Start 之前任务不会执行.
func NewScheduler(opts ...gocron.SchedulerOption) (*Scheduler, error) {
	cron, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron,
		logger: log.Component("scheduler"),
		jobs:   make(map[string]*entry),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// AddCron 按五段 cron 表达式注册任务. 同一任务不会并发执行，上一次未结束时跳过本次.
func (s *Scheduler) AddCron(name, cronExpr string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrJobExists, name)
	}

	j, err := s.cron.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(s.run, name, fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}

	s.jobs[name] = &entry{job: j, info: JobInfo{
		ID:        j.ID().String(),
		Name:      name,
		CronExpr:  cronExpr,
		Status:    StatusScheduled,
		CreatedAt: time.Now(),
	}}

	s.logger.Info().Str("job", name).Str("cron", cronExpr).Msg("job registered")

	return nil
}

// run 执行一次任务，记录状态与指标，panic 记为失败.
func (s *Scheduler) run(name string, fn JobFunc) {
	start := time.Now()
	s.update(name, func(i *JobInfo) { i.Status = StatusRunning })

	var err error

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}

		elapsed := time.Since(start)
		result := "ok"

		s.update(name, func(i *JobInfo) {
			i.Runs++
			i.LastRun = start
			i.LastElapsed = elapsed

			if err != nil {
				i.Status, i.Error = StatusError, err.Error()
				return
			}

			i.Status, i.Error, i.LastSuccess = StatusScheduled, "", time.Now()
		})

		if err != nil {
			result = "error"
			s.logger.Error().Err(err).Str("job", name).Dur("elapsed", elapsed).Msg("job failed")
		} else {
			s.logger.Debug().Str("job", name).Dur("elapsed", elapsed).Msg("job finished")
		}

		metrics.JobRuns.WithLabelValues(name, result).Inc()
	}()

	err = fn(s.ctx)
}

func (s *Scheduler) update(name string, fn func(*JobInfo)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.jobs[name]; ok {
		fn(&e.info)
	}
}

// lookup 按名称或 ID 查找任务，调用方持有锁.
func (s *Scheduler) lookup(ref string) (string, *entry, bool) {
	if e, ok := s.jobs[ref]; ok {
		return ref, e, true
	}

	id, err := uuid.Parse(ref)
	if err != nil {
		return "", nil, false
	}

	for name, e := range s.jobs {
		if e.job.ID() == id {
			return name, e, true
		}
	}

	return "", nil, false
}

// RunNow 立即执行一次，ref 为任务名称或 ID.
func (s *Scheduler) RunNow(ref string) error {
	s.mu.RLock()
	_, e, ok := s.lookup(ref)
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, ref)
	}

	return e.job.RunNow()
}

// Remove 移除任务，ref 为任务名称或 ID.
func (s *Scheduler) Remove(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, e, ok := s.lookup(ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, ref)
	}

	if err := s.cron.RemoveJob(e.job.ID()); err != nil {
		return fmt.Errorf("remove job %s: %w", name, err)
	}

	delete(s.jobs, name)
	s.logger.Info().Str("job", name).Msg("job removed")

	return nil
}

// Jobs 返回按名称排序的任务快照，NextRun 为查询时刻的值.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, e := range s.jobs {
		info := e.info
		if next, err := e.job.NextRun(); err == nil {
			info.NextRun = next
		}

		out = append(out, info)
	}

	slices.SortFunc(out, func(a, b JobInfo) int { return cmp.Compare(a.Name, b.Name) })

	return out
}

// Start 开始调度.
func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", len(s.Jobs())).Msg("scheduler started")
	s.cron.Start()
}

// StopJobs 暂停全部调度，已注册的任务保留，Start 可恢复.
func (s *Scheduler) StopJobs() error {
	return s.cron.StopJobs()
}

// Shutdown 取消任务 context 并等待运行中的任务结束.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	return s.cron.Shutdown()
}

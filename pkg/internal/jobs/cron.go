// Package jobs 注册业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"fmt"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/naming"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/upload"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:30 审计未被引用的上传对象（仅对象存储后端）
func RegisterCronJobs(sched *scheduler.Scheduler, cfg *configs.AppConfig, mgr *storage.Manager, svc *service.Services) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil || svc == nil {
		return fmt.Errorf("storage manager or services is nil")
	}

	bucket := mgr.UploadBucket()
	if bucket == nil {
		log.Logger().Info().Str("backend", string(cfg.Upload.Backend)).Msg("orphan audit disabled: no object store")
		return nil
	}

	store := upload.NewObjectStore(bucket, cfg.Upload.ObjectStore, naming.Default)
	auditor := NewAuditor(bucket, cfg.Upload.ObjectStore.Prefix, store.PublicURL,
		svc.Repos.Gallery.ImageURLs,
		svc.Repos.Documents.FileURLs,
		svc.Repos.Jobs.ResumeURLs,
	)

	return sched.AddCron(JobOrphanAudit, CronOrphanAudit, func(ctx context.Context) error {
		_, err := auditor.Run(ctx)
		return err
	})
}

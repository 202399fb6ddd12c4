package jobs

// 任务名称常量.
const (
	JobOrphanAudit = "upload.orphan_audit"
)

// Cron 表达式常量.
const (
	CronOrphanAudit = "30 3 * * *"
)

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
)

// JobRepository 职位与求职申请.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository 创建仓库.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create 新建职位.
func (r *JobRepository) Create(ctx context.Context, job *model.JobPosting) error {
	return wrap("create job", r.db.WithContext(ctx).Create(job).Error)
}

// Update 更新职位的可编辑字段.
func (r *JobRepository) Update(ctx context.Context, job *model.JobPosting) error {
	res := r.db.WithContext(ctx).Model(&model.JobPosting{}).Where("id = ?", job.ID).
		Select("title", "description", "qualifications", "is_active", "updated_at").
		Updates(job)
	if res.Error != nil {
		return wrap("update job", res.Error)
	}

	if res.RowsAffected == 0 {
		return wrap("update job", gorm.ErrRecordNotFound)
	}

	return nil
}

// Delete 删除职位及其申请.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_posting_id = ?", id).Delete(&model.JobApplicant{}).Error; err != nil {
			return wrap("delete applicants", err)
		}

		res := tx.Where("id = ?", id).Delete(&model.JobPosting{})
		if res.Error != nil {
			return wrap("delete job", res.Error)
		}

		if res.RowsAffected == 0 {
			return wrap("delete job", gorm.ErrRecordNotFound)
		}

		return nil
	})
}

// List 按发布时间倒序列出职位，activeOnly 只返回开放中的职位.
func (r *JobRepository) List(ctx context.Context, activeOnly bool) ([]model.JobPosting, error) {
	q := r.db.WithContext(ctx).Order("posted_at DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var out []model.JobPosting

	err := q.Find(&out).Error

	return out, wrap("list jobs", err)
}

// Get 读取职位.
func (r *JobRepository) Get(ctx context.Context, id string) (*model.JobPosting, error) {
	var j model.JobPosting
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&j).Error; err != nil {
		return nil, wrap("get job", err)
	}

	return &j, nil
}

// CreateApplicant 保存求职申请.
func (r *JobRepository) CreateApplicant(ctx context.Context, a *model.JobApplicant) error {
	return wrap("create applicant", r.db.WithContext(ctx).Create(a).Error)
}

// Applicants 按申请时间倒序列出某职位的申请.
func (r *JobRepository) Applicants(ctx context.Context, jobID string) ([]model.JobApplicant, error) {
	var out []model.JobApplicant

	err := r.db.WithContext(ctx).Where("job_posting_id = ?", jobID).Order("applied_at DESC").Find(&out).Error

	return out, wrap("list applicants", err)
}

// ResumeURLs 返回所有简历地址.
func (r *JobRepository) ResumeURLs(ctx context.Context) ([]string, error) {
	var urls []string

	err := r.db.WithContext(ctx).Model(&model.JobApplicant{}).Pluck("resume_url", &urls).Error

	return urls, wrap("list resume urls", err)
}

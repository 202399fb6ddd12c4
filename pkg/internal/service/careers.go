package service

import (
	"context"
	"fmt"
	"time"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/naming"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/upload"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/queue"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/rule"
)

// JobStore 职位与申请持久化.
type JobStore interface {
	Create(ctx context.Context, job *model.JobPosting) error
	Update(ctx context.Context, job *model.JobPosting) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]model.JobPosting, error)
	Get(ctx context.Context, id string) (*model.JobPosting, error)
	CreateApplicant(ctx context.Context, a *model.JobApplicant) error
	Applicants(ctx context.Context, jobID string) ([]model.JobApplicant, error)
}

// JobInput 职位的可编辑字段.
type JobInput struct {
	Title          string `rule:"required,notblank,max=200"`
	Description    string `rule:"required"`
	Qualifications string `rule:"required"`
	IsActive       bool
}

// ApplicantInput 求职表单.
type ApplicantInput struct {
	Name        string `rule:"required,notblank,max=200"`
	Email       string `rule:"required,email"`
	PhoneNumber string `rule:"omitempty,phone,max=64"`
}

// CareersService 招聘.
type CareersService struct {
	store    JobStore
	uploader upload.Uploader
	events   *queue.Events
	// service 代表公开申请者上传简历的服务主体
	service admin.Principal
}

// NewCareersService 创建招聘服务.
func NewCareersService(store JobStore, uploader upload.Uploader, events *queue.Events, serviceUserID string) *CareersService {
	return &CareersService{store: store, uploader: uploader, events: events, service: admin.Service(serviceUserID)}
}

// Create 新建职位.
func (s *CareersService) Create(ctx context.Context, p admin.Principal, in JobInput) (*model.JobPosting, error) {
	if !p.IsAdmin {
		return nil, admin.ErrForbidden
	}

	if err := rule.ValidateStruct(&in); err != nil {
		return nil, invalid(err)
	}

	job := &model.JobPosting{
		Title:          in.Title,
		Description:    in.Description,
		Qualifications: in.Qualifications,
		IsActive:       in.IsActive,
	}

	if err := s.store.Create(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// Update 更新职位.
func (s *CareersService) Update(ctx context.Context, p admin.Principal, id string, in JobInput) (*model.JobPosting, error) {
	if !p.IsAdmin {
		return nil, admin.ErrForbidden
	}

	if err := rule.ValidateStruct(&in); err != nil {
		return nil, invalid(err)
	}

	job := &model.JobPosting{
		ID:             id,
		Title:          in.Title,
		Description:    in.Description,
		Qualifications: in.Qualifications,
		IsActive:       in.IsActive,
		UpdatedAt:      time.Now(),
	}

	if err := s.store.Update(ctx, job); err != nil {
		return nil, err
	}

	return s.store.Get(ctx, id)
}

// Delete 删除职位.
func (s *CareersService) Delete(ctx context.Context, p admin.Principal, id string) error {
	if !p.IsAdmin {
		return admin.ErrForbidden
	}

	return s.store.Delete(ctx, id)
}

// List 列出全部职位.
func (s *CareersService) List(ctx context.Context) ([]model.JobPosting, error) {
	return s.store.List(ctx, false)
}

// ListActive 列出开放中的职位.
func (s *CareersService) ListActive(ctx context.Context) ([]model.JobPosting, error) {
	return s.store.List(ctx, true)
}

// Get 读取职位.
func (s *CareersService) Get(ctx context.Context, id string) (*model.JobPosting, error) {
	return s.store.Get(ctx, id)
}

// Apply 公开申请：上传 PDF 简历后写入申请记录.
func (s *CareersService) Apply(ctx context.Context, jobID string, in ApplicantInput, resume upload.Request) (*model.JobApplicant, error) {
	if err := rule.ValidateStruct(&in); err != nil {
		return nil, invalid(err)
	}

	if naming.Extension(resume.FileName) != ".pdf" {
		return nil, invalid(fmt.Errorf("%w: resume must be a PDF", ErrUnsupportedFile))
	}

	resume.ContentType = "application/pdf"

	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !job.IsActive {
		return nil, ErrJobClosed
	}

	d, err := s.uploader.Upload(ctx, s.service, resume)
	if err != nil {
		return nil, err
	}

	applicant := &model.JobApplicant{
		JobPostingID: job.ID,
		Name:         in.Name,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		ResumeURL:    d.PublicURL,
	}

	if err := s.store.CreateApplicant(ctx, applicant); err != nil {
		return nil, err
	}

	if err := s.events.ApplicationReceived(ctx, queue.ApplicationReceivedPayload{
		JobID:       job.ID,
		JobTitle:    job.Title,
		ApplicantID: applicant.ID,
		Name:        applicant.Name,
		Email:       applicant.Email,
		ResumeURL:   applicant.ResumeURL,
	}); err != nil {
		l := log.Component("careers")
		l.Warn().Err(err).Str("job_id", job.ID).Msg("publish application event")
	}

	return applicant, nil
}

// Applications 列出某职位的申请.
func (s *CareersService) Applications(ctx context.Context, p admin.Principal, jobID string) ([]model.JobApplicant, error) {
	if !p.IsAdmin {
		return nil, admin.ErrForbidden
	}

	return s.store.Applicants(ctx, jobID)
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
)

// LeadRepository 联系表单线索.
type LeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository 创建仓库.
func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create 保存线索.
func (r *LeadRepository) Create(ctx context.Context, lead *model.ContactSubmission) error {
	return wrap("create lead", r.db.WithContext(ctx).Create(lead).Error)
}

// List 按提交时间倒序列出线索.
func (r *LeadRepository) List(ctx context.Context) ([]model.ContactSubmission, error) {
	var out []model.ContactSubmission

	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error

	return out, wrap("list leads", err)
}

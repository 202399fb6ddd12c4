package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
)

// DocumentRepository 公司文档.
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建仓库.
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Upsert 按 document_type 写入或替换文档.
func (r *DocumentRepository) Upsert(ctx context.Context, doc *model.CompanyDocument) error {
	now := time.Now()
	doc.UploadedAt = now
	doc.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "document_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"file_url", "original_filename", "uploaded_at", "updated_at"}),
	}).Create(doc).Error

	return wrap("upsert document", err)
}

// Get 读取指定类型的文档.
func (r *DocumentRepository) Get(ctx context.Context, docType string) (*model.CompanyDocument, error) {
	var d model.CompanyDocument
	if err := r.db.WithContext(ctx).Where("document_type = ?", docType).Take(&d).Error; err != nil {
		return nil, wrap("get document", err)
	}

	return &d, nil
}

// FileURLs 返回所有文档地址.
func (r *DocumentRepository) FileURLs(ctx context.Context) ([]string, error) {
	var urls []string

	err := r.db.WithContext(ctx).Model(&model.CompanyDocument{}).Pluck("file_url", &urls).Error

	return urls, wrap("list document urls", err)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/cache"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/naming"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/upload"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

const companyProfileKey = "company:profile"

// 公司介绍只接受 PDF 和 PPTX.
var companyProfileTypes = map[string]string{
	".pdf":  "application/pdf",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// DocumentStore 公司文档持久化.
type DocumentStore interface {
	Upsert(ctx context.Context, doc *model.CompanyDocument) error
	Get(ctx context.Context, docType string) (*model.CompanyDocument, error)
}

// CompanyProfileService 公司介绍文档.
type CompanyProfileService struct {
	store    DocumentStore
	uploader upload.Uploader
	cache    *cache.Cache
	ttl      time.Duration
}

// NewCompanyProfileService 创建服务，c 可以为 nil.
func NewCompanyProfileService(store DocumentStore, uploader upload.Uploader, c *cache.Cache, ttl time.Duration) *CompanyProfileService {
	return &CompanyProfileService{store: store, uploader: uploader, cache: c, ttl: ttl}
}

// Upload 上传新的公司介绍并替换旧记录.
func (s *CompanyProfileService) Upload(ctx context.Context, p admin.Principal, file upload.Request) (*model.CompanyDocument, error) {
	ext := naming.Extension(file.FileName)

	contentType, ok := companyProfileTypes[ext]
	if !ok {
		return nil, invalid(fmt.Errorf("%w: %q, want .pdf or .pptx", ErrUnsupportedFile, ext))
	}

	if file.ContentType == "" || file.ContentType == "application/octet-stream" {
		file.ContentType = contentType
	}

	d, err := s.uploader.Upload(ctx, p, file)
	if err != nil {
		return nil, err
	}

	doc := &model.CompanyDocument{
		DocumentType:     model.DocumentTypeCompanyProfile,
		FileURL:          d.PublicURL,
		OriginalFilename: file.FileName,
	}

	if err := s.store.Upsert(ctx, doc); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, companyProfileKey); err != nil {
			l := log.Component("company")
			l.Warn().Err(err).Msg("invalidate company profile cache")
		}
	}

	return doc, nil
}

// Current 返回当前公司介绍.
func (s *CompanyProfileService) Current(ctx context.Context) (*model.CompanyDocument, error) {
	return cache.GetOrSet(ctx, s.cache, companyProfileKey, func() (*model.CompanyDocument, error) {
		return s.store.Get(ctx, model.DocumentTypeCompanyProfile)
	}, s.ttl)
}

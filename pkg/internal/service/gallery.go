package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/cache"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/upload"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/rule"
)

const (
	galleryListKey    = "gallery:list"
	galleryProjectKey = "gallery:project:"
	galleryPattern    = "gallery:*"
	// DefaultUploadConcurrency 单个相册并发上传图片数.
	DefaultUploadConcurrency = 4
)

// GalleryStore 相册持久化.
type GalleryStore interface {
	CreateProject(ctx context.Context, project *model.ProjectGallery, images []model.GalleryImage) error
	List(ctx context.Context) ([]model.ProjectGallery, error)
	Get(ctx context.Context, id string) (*model.ProjectGallery, error)
	Delete(ctx context.Context, id string) error
}

// ImageInput 待上传的图片.
type ImageInput struct {
	File    upload.Request
	Caption string `rule:"max=500"`
}

// ProjectInput 新建相册的输入.
type ProjectInput struct {
	Title       string       `rule:"required,notblank,max=150"`
	Description string       `rule:"max=2500"`
	Date        *time.Time   `rule:"-"`
	Images      []ImageInput `rule:"required,min=1,dive"`
}

// GalleryService 项目相册.
type GalleryService struct {
	store       GalleryStore
	uploader    upload.Uploader
	cache       *cache.Cache
	ttl         time.Duration
	concurrency int
}

// NewGalleryService 创建相册服务，c 可以为 nil.
func NewGalleryService(store GalleryStore, uploader upload.Uploader, c *cache.Cache, ttl time.Duration) *GalleryService {
	return &GalleryService{
		store:       store,
		uploader:    uploader,
		cache:       c,
		ttl:         ttl,
		concurrency: DefaultUploadConcurrency,
	}
}

// CreateProject 上传全部图片后再一次性写入相册与图片记录.
// 任何一张图片失败都不会写入任何记录，已上传的远端对象保留.
func (s *GalleryService) CreateProject(ctx context.Context, p admin.Principal, in ProjectInput) (*model.ProjectGallery, error) {
	if err := rule.ValidateStruct(&in); err != nil {
		return nil, invalid(err)
	}

	total := len(in.Images)
	urls := make([]string, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, img := range in.Images {
		g.Go(func() error {
			d, err := s.uploader.Upload(gctx, p, img.File)
			if err != nil {
				return fmt.Errorf("failed to upload image %d of %d: %w", i+1, total, err)
			}

			urls[i] = d.PublicURL

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l := log.Component("gallery")
		l.Error().Err(err).Str("title", in.Title).Msg("project not created")
		return nil, err
	}

	project := &model.ProjectGallery{Title: in.Title, Description: in.Description, Date: in.Date}

	images := make([]model.GalleryImage, total)
	for i, img := range in.Images {
		images[i] = model.GalleryImage{ImageURL: urls[i], Caption: img.Caption, OrderIndex: i}
	}

	if err := s.store.CreateProject(ctx, project, images); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return project, nil
}

// List 列出相册，优先读缓存.
func (s *GalleryService) List(ctx context.Context) ([]model.ProjectGallery, error) {
	return cache.GetOrSet(ctx, s.cache, galleryListKey, func() ([]model.ProjectGallery, error) {
		return s.store.List(ctx)
	}, s.ttl)
}

// Get 读取单个相册.
func (s *GalleryService) Get(ctx context.Context, id string) (*model.ProjectGallery, error) {
	return cache.GetOrSet(ctx, s.cache, galleryProjectKey+id, func() (*model.ProjectGallery, error) {
		return s.store.Get(ctx, id)
	}, s.ttl)
}

// Delete 删除相册记录，已上传的对象保留，由孤儿审计报告.
func (s *GalleryService) Delete(ctx context.Context, p admin.Principal, id string) error {
	if !p.IsAdmin {
		return admin.ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

func (s *GalleryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if _, err := s.cache.DeletePattern(ctx, galleryPattern); err != nil {
		l := log.Component("gallery")
		l.Warn().Err(err).Msg("invalidate gallery cache")
	}
}

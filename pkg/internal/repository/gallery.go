package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
)

// GalleryRepository 相册与图片.
type GalleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository 创建仓库.
func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// CreateProject 在一个事务中写入相册和全部图片.
func (r *GalleryRepository) CreateProject(ctx context.Context, project *model.ProjectGallery, images []model.GalleryImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images").Create(project).Error; err != nil {
			return wrap("create project", err)
		}

		if len(images) == 0 {
			return nil
		}

		for i := range images {
			images[i].ProjectGalleryID = project.ID
		}

		if err := tx.Create(&images).Error; err != nil {
			return wrap("create gallery images", err)
		}

		project.Images = images

		return nil
	})
}

// List 按日期倒序列出相册，附带按顺序排列的图片.
func (r *GalleryRepository) List(ctx context.Context) ([]model.ProjectGallery, error) {
	var out []model.ProjectGallery

	err := r.db.WithContext(ctx).
		Preload("Images", orderImages).
		Order("date DESC").
		Order("created_at DESC").
		Find(&out).Error

	return out, wrap("list projects", err)
}

// Get 读取单个相册.
func (r *GalleryRepository) Get(ctx context.Context, id string) (*model.ProjectGallery, error) {
	var p model.ProjectGallery
	if err := r.db.WithContext(ctx).Preload("Images", orderImages).Where("id = ?", id).Take(&p).Error; err != nil {
		return nil, wrap("get project", err)
	}

	return &p, nil
}

// Delete 删除相册及其图片记录，不触碰远端对象.
func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_gallery_id = ?", id).Delete(&model.GalleryImage{}).Error; err != nil {
			return wrap("delete gallery images", err)
		}

		res := tx.Where("id = ?", id).Delete(&model.ProjectGallery{})
		if res.Error != nil {
			return wrap("delete project", res.Error)
		}

		if res.RowsAffected == 0 {
			return wrap("delete project", gorm.ErrRecordNotFound)
		}

		return nil
	})
}

// ImageURLs 返回所有图片地址.
func (r *GalleryRepository) ImageURLs(ctx context.Context) ([]string, error) {
	var urls []string

	err := r.db.WithContext(ctx).Model(&model.GalleryImage{}).Pluck("image_url", &urls).Error

	return urls, wrap("list image urls", err)
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC")
}

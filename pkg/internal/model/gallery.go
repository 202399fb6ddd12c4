package model

import "time"

// ProjectGallery 项目相册.
type ProjectGallery struct {
	ID          string         `gorm:"primaryKey;size:36"  json:"id"`
	Title       string         `gorm:"size:150;not null"   json:"title"`
	Description string         `gorm:"size:2500"           json:"description"`
	Date        *time.Time     `gorm:"index"               json:"date"`
	Images      []GalleryImage `gorm:"foreignKey:ProjectGalleryID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName 表名.
func (ProjectGallery) TableName() string { return "project_gallery" }

// GalleryImage 相册中的一张图片.
type GalleryImage struct {
	ID               string    `gorm:"primaryKey;size:36"        json:"id"`
	ProjectGalleryID string    `gorm:"size:36;index;not null"    json:"project_gallery_id"`
	ImageURL         string    `gorm:"size:2048;not null"        json:"image_url"`
	Caption          string    `gorm:"size:500"                  json:"caption"`
	OrderIndex       int       `gorm:"default:0"                 json:"order_index"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName 表名.
func (GalleryImage) TableName() string { return "gallery_images" }

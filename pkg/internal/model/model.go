// Package model 定义持久化到关系数据库的业务记录.
package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// All 返回需要自动迁移的全部模型.
func All() []any {
	return []any{
		&Profile{},
		&ProjectGallery{},
		&GalleryImage{},
		&CompanyDocument{},
		&JobPosting{},
		&JobApplicant{},
		&ContactSubmission{},
	}
}

// newID 为空主键生成 UUID.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// BeforeCreate 生成主键.
func (g *ProjectGallery) BeforeCreate(*gorm.DB) error { newID(&g.ID); return nil }

// BeforeCreate 生成主键.
func (i *GalleryImage) BeforeCreate(*gorm.DB) error { newID(&i.ID); return nil }

// BeforeCreate 生成主键.
func (d *CompanyDocument) BeforeCreate(*gorm.DB) error { newID(&d.ID); return nil }

// BeforeCreate 生成主键.
func (j *JobPosting) BeforeCreate(*gorm.DB) error { newID(&j.ID); return nil }

// BeforeCreate 生成主键.
func (a *JobApplicant) BeforeCreate(*gorm.DB) error { newID(&a.ID); return nil }

// BeforeCreate 生成主键.
func (c *ContactSubmission) BeforeCreate(*gorm.DB) error { newID(&c.ID); return nil }

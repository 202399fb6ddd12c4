// Package repository 提供业务记录的 gorm 持久化实现.
package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在，或外键引用的记录不存在.
	ErrNotFound = errors.New("record not found")
	// ErrConflict 违反唯一约束.
	ErrConflict = errors.New("record already exists")
)

// wrap 把 gorm 的哨兵错误统一为本包的错误，连接打开时启用了 TranslateError.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// Set 聚合所有仓库.
type Set struct {
	Profiles  *ProfileRepository
	Gallery   *GalleryRepository
	Documents *DocumentRepository
	Jobs      *JobRepository
	Leads     *LeadRepository
}

// New 基于同一个连接创建全部仓库.
func New(db *gorm.DB) *Set {
	return &Set{
		Profiles:  &ProfileRepository{db: db},
		Gallery:   &GalleryRepository{db: db},
		Documents: &DocumentRepository{db: db},
		Jobs:      &JobRepository{db: db},
		Leads:     &LeadRepository{db: db},
	}
}

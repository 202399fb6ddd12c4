package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
)

// ProfileRepository profiles 表.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建仓库.
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// IsAdmin 读取管理员标记，profile 不存在时返回 ErrNotFound.
func (r *ProfileRepository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Select("id", "is_admin").Where("id = ?", userID).Take(&p).Error; err != nil {
		return false, wrap("get profile", err)
	}

	return p.Admin(), nil
}

// Upsert 创建或更新 profile 的管理员标记.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, isAdmin bool) error {
	p := model.Profile{ID: userID, IsAdmin: &isAdmin, UpdatedAt: time.Now()}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_admin", "updated_at"}),
	}).Create(&p).Error

	return wrap("upsert profile", err)
}

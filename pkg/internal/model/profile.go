package model

import "time"

// Profile 认证用户的资料，id 与托管认证服务的用户 id 相同.
type Profile struct {
	ID string `gorm:"primaryKey;size:64" json:"id"`
	// IsAdmin 为 NULL 时视为非管理员
	IsAdmin   *bool     `json:"is_admin"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 表名.
func (Profile) TableName() string { return "profiles" }

// Admin 判断是否为管理员.
func (p *Profile) Admin() bool {
	return p != nil && p.IsAdmin != nil && *p.IsAdmin
}

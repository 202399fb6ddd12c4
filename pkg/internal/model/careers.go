package model

import "time"

// JobPosting 招聘职位.
type JobPosting struct {
	ID             string    `gorm:"primaryKey;size:36"  json:"id"`
	Title          string    `gorm:"size:200;not null"   json:"title"`
	Description    string    `gorm:"type:text;not null"  json:"description"`
	Qualifications string    `gorm:"type:text;not null"  json:"qualifications"`
	IsActive       bool      `gorm:"index;default:true"  json:"is_active"`
	PostedAt       time.Time `gorm:"index;autoCreateTime" json:"posted_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName 表名.
func (JobPosting) TableName() string { return "job_postings" }

// JobApplicant 求职申请.
type JobApplicant struct {
	ID           string    `gorm:"primaryKey;size:36"     json:"id"`
	JobPostingID string    `gorm:"size:36;index;not null" json:"job_posting_id"`
	Name         string    `gorm:"size:200;not null"      json:"name"`
	Email        string    `gorm:"size:320;not null"      json:"email"`
	PhoneNumber  string    `gorm:"size:64"                json:"phone_number"`
	ResumeURL    string    `gorm:"size:2048;not null"     json:"resume_url"`
	AppliedAt    time.Time `gorm:"index;autoCreateTime"   json:"applied_at"`
}

// TableName 表名.
func (JobApplicant) TableName() string { return "job_applicants" }

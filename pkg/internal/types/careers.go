package types

import "mime/multipart"

// JobRequest 新建或更新职位.
type JobRequest struct {
	Title          string `json:"title"          rule:"required,notblank,max=200"`
	Description    string `json:"description"    rule:"required"`
	Qualifications string `json:"qualifications" rule:"required"`
	IsActive       *bool  `json:"is_active"` // 缺省为 true
}

// ApplyForm 公开求职表单，简历只接受 PDF.
type ApplyForm struct {
	Name        string                `form:"name"         rule:"required,notblank,max=200"`
	Email       string                `form:"email"        rule:"required,email"`
	PhoneNumber string                `form:"phone_number" rule:"omitempty,phone,max=64"`
	Resume      *multipart.FileHeader `form:"resume"       rule:"required"`
}

// ApplyResponse 申请结果.
type ApplyResponse struct {
	ApplicantID string `json:"applicant_id"`
	ResumeURL   string `json:"resume_url"`
}

package model

import "time"

// DocumentTypeCompanyProfile 公司介绍文档类型.
const DocumentTypeCompanyProfile = "company_profile"

// CompanyDocument 公司文档，每种类型只保留一份.
type CompanyDocument struct {
	ID               string    `gorm:"primaryKey;size:36"              json:"id"`
	DocumentType     string    `gorm:"size:64;uniqueIndex;not null"    json:"document_type"`
	FileURL          string    `gorm:"size:2048;not null"              json:"file_url"`
	OriginalFilename string    `gorm:"size:512;not null"               json:"original_filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName 表名.
func (CompanyDocument) TableName() string { return "company_documents" }

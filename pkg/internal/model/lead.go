package model

import "time"

// ContactSubmission 联系表单提交的线索.
type ContactSubmission struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:200;not null"  json:"name"`
	Email     string    `gorm:"size:320;not null"  json:"email"`
	Phone     string    `gorm:"size:64"            json:"phone"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index"              json:"created_at"`
}

// TableName 表名.
func (ContactSubmission) TableName() string { return "contact_submissions" }

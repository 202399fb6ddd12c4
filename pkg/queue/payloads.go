package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 上传领域 --------------------------

// UploadStoredPayload 文件已写入后端.
type UploadStoredPayload struct {
	Backend     string `json:"backend"`
	Path        string `json:"path"`
	PublicURL   string `json:"public_url"`
	FileName    string `json:"file_name,omitempty"` // 原始文件名
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	UserID      string `json:"user_id"`
	Attempts    int    `json:"attempts,omitempty"`
}

// UploadFailedPayload 上传失败.
type UploadFailedPayload struct {
	Backend  string `json:"backend"`
	FileName string `json:"file_name,omitempty"`
	Kind     string `json:"kind"`
	Error    string `json:"error"`
	UserID   string `json:"user_id"`
}

// -------------------------- 业务记录领域 --------------------------

// ApplicationReceivedPayload 新的求职申请.
type ApplicationReceivedPayload struct {
	JobID       string `json:"job_id"`
	JobTitle    string `json:"job_title,omitempty"`
	ApplicantID string `json:"applicant_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ResumeURL   string `json:"resume_url"`
}

// LeadSubmittedPayload 新的联系表单.
type LeadSubmittedPayload struct {
	LeadID string `json:"lead_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

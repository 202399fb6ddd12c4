package types

import "mime/multipart"

// SingleUploadForm 管理员单文件上传.
type SingleUploadForm struct {
	File *multipart.FileHeader `form:"file" rule:"required"`
}

// CompanyProfileForm 公司介绍上传，只接受 .pdf / .pptx.
type CompanyProfileForm struct {
	File *multipart.FileHeader `form:"file" rule:"required"`
}

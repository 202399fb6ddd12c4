package types

import (
	"mime/multipart"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
)

// CreateProjectForm 新建相册的表单字段，图片通过 images 多文件字段提交.
type CreateProjectForm struct {
	Title       string                  `form:"title"       rule:"required,notblank,max=150"`
	Description string                  `form:"description" rule:"max=2500"`
	Date        string                  `form:"date"        rule:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD
	Captions    []string                `form:"captions"`                                         // 与 images 按下标对应
	Images      []*multipart.FileHeader `form:"images"      rule:"required,min=1"`
}

// ProjectListResponse 相册列表.
type ProjectListResponse struct {
	Projects []model.ProjectGallery `json:"projects"`
	Total    int                    `json:"total"`
}

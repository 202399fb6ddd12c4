package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/types"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// AdminUpload 上传单个文件并返回公开地址.
//
//	@Summary		上传文件
//	@Description	写入配置的上传后端，返回路径与公开地址
//	@Tags			上传
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file				true	"文件"
//	@Success		201		{object}	upload.Descriptor	"已写入对象"
//	@Failure		400		{object}	types.ErrorResponse	"请求参数错误"
//	@Failure		401		{object}	types.ErrorResponse	"未登录"
//	@Failure		403		{object}	types.ErrorResponse	"非管理员"
//	@Failure		502		{object}	types.ErrorResponse	"上传失败"
//	@Router			/api/v1/admin/uploads [post]
func AdminUpload(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	var form types.SingleUploadForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, l, bindError(err))
		return
	}

	req, err := readFile(form.File)
	if err != nil {
		writeError(c, l, err)
		return
	}

	d, err := svc.Uploader.Upload(c.Request.Context(), principal(c), req)
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

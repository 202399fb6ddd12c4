package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/types"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// GetCompanyProfile 当前公司介绍.
//
//	@Summary	公司介绍
//	@Tags		公司介绍
//	@Produce	json
//	@Success	200	{object}	model.CompanyDocument	"公司介绍"
//	@Failure	404	{object}	types.ErrorResponse		"尚未上传"
//	@Router		/api/v1/company-profile [get]
func GetCompanyProfile(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	doc, err := svc.Company.Current(c.Request.Context())
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// UploadCompanyProfile 上传并替换公司介绍.
//
//	@Summary		上传公司介绍
//	@Description	只接受 .pdf 或 .pptx，替换已有记录
//	@Tags			公司介绍
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file					true	"公司介绍文件"
//	@Success		200		{object}	model.CompanyDocument	"新记录"
//	@Failure		400		{object}	types.ErrorResponse		"文件类型不支持"
//	@Failure		502		{object}	types.ErrorResponse		"上传失败"
//	@Router			/api/v1/admin/company-profile [post]
func UploadCompanyProfile(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	var form types.CompanyProfileForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, l, bindError(err))
		return
	}

	req, err := readFile(form.File)
	if err != nil {
		writeError(c, l, err)
		return
	}

	doc, err := svc.Company.Upload(c.Request.Context(), principal(c), req)
	if err != nil {
		writeError(c, l, err)
		return
	}

	l.Info().Str("file_url", doc.FileURL).Msg("company profile replaced")
	c.JSON(http.StatusOK, doc)
}

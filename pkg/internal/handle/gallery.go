package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/types"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// ListProjects 公开相册列表.
//
//	@Summary		相册列表
//	@Description	按日期倒序返回全部项目相册及其图片
//	@Tags			相册
//	@Produce		json
//	@Success		200	{object}	types.ProjectListResponse	"相册列表"
//	@Failure		500	{object}	types.ErrorResponse			"服务器内部错误"
//	@Router			/api/v1/gallery [get]
func ListProjects(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	projects, err := svc.Gallery.List(c.Request.Context())
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, types.ProjectListResponse{Projects: projects, Total: len(projects)})
}

// GetProject 单个相册.
//
//	@Summary	相册详情
//	@Tags		相册
//	@Produce	json
//	@Param		id	path		string					true	"相册 ID"
//	@Success	200	{object}	model.ProjectGallery	"相册"
//	@Failure	404	{object}	types.ErrorResponse		"不存在"
//	@Router		/api/v1/gallery/{id} [get]
func GetProject(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	id, err := param(c, "id")
	if err != nil {
		writeError(c, l, err)
		return
	}

	project, err := svc.Gallery.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// CreateProject 新建相册并上传全部图片，任何一张失败都不会写入记录.
//
//	@Summary		新建相册
//	@Description	上传所有图片后一次性写入相册与图片记录
//	@Tags			相册
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title		formData	string					true	"标题"
//	@Param			description	formData	string					false	"描述"
//	@Param			date		formData	string					false	"日期 YYYY-MM-DD"
//	@Param			captions	formData	[]string				false	"图片说明，与 images 顺序对应"
//	@Param			images		formData	[]file					true	"图片"
//	@Success		201			{object}	model.ProjectGallery	"新相册"
//	@Failure		400			{object}	types.ErrorResponse		"请求参数错误"
//	@Failure		401			{object}	types.ErrorResponse		"未登录"
//	@Failure		403			{object}	types.ErrorResponse		"非管理员"
//	@Failure		502			{object}	types.ErrorResponse		"上传失败"
//	@Router			/api/v1/admin/gallery [post]
func CreateProject(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	var form types.CreateProjectForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, l, bindError(err))
		return
	}

	in := service.ProjectInput{Title: form.Title, Description: form.Description}

	if form.Date != "" {
		date, err := time.Parse(time.DateOnly, form.Date)
		if err != nil {
			writeError(c, l, bindError(err))
			return
		}

		in.Date = &date
	}

	for i, fh := range form.Images {
		req, err := readFile(fh)
		if err != nil {
			writeError(c, l, err)
			return
		}

		img := service.ImageInput{File: req}
		if i < len(form.Captions) {
			img.Caption = form.Captions[i]
		}

		in.Images = append(in.Images, img)
	}

	project, err := svc.Gallery.CreateProject(c.Request.Context(), principal(c), in)
	if err != nil {
		writeError(c, l, err)
		return
	}

	l.Info().Str("project_id", project.ID).Int("images", len(project.Images)).Msg("project created")
	c.JSON(http.StatusCreated, project)
}

// DeleteProject 删除相册记录，远端文件保留.
//
//	@Summary	删除相册
//	@Tags		相册
//	@Produce	json
//	@Param		id	path		string					true	"相册 ID"
//	@Success	200	{object}	types.MessageResponse	"已删除"
//	@Failure	404	{object}	types.ErrorResponse		"不存在"
//	@Router		/api/v1/admin/gallery/{id} [delete]
func DeleteProject(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	id, err := param(c, "id")
	if err != nil {
		writeError(c, l, err)
		return
	}

	if err := svc.Gallery.Delete(c.Request.Context(), principal(c), id); err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: "project deleted"})
}

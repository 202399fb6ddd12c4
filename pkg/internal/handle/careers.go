package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/types"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

func jobInput(req types.JobRequest) service.JobInput {
	in := service.JobInput{
		Title:          req.Title,
		Description:    req.Description,
		Qualifications: req.Qualifications,
		IsActive:       true,
	}

	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}

	return in
}

// ListOpenJobs 开放中的职位.
//
//	@Summary	开放职位
//	@Tags		招聘
//	@Produce	json
//	@Success	200	{array}	model.JobPosting	"职位列表"
//	@Router		/api/v1/careers [get]
func ListOpenJobs(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	jobs, err := svc.Careers.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetJob 职位详情.
//
//	@Summary	职位详情
//	@Tags		招聘
//	@Produce	json
//	@Param		id	path		string				true	"职位 ID"
//	@Success	200	{object}	model.JobPosting	"职位"
//	@Failure	404	{object}	types.ErrorResponse	"不存在"
//	@Router		/api/v1/careers/{id} [get]
func GetJob(c *gin.Context) {
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

	job, err := svc.Careers.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ApplyForJob 公开求职申请.
//
//	@Summary		提交申请
//	@Description	上传 PDF 简历并写入申请记录，职位必须处于开放状态
//	@Tags			招聘
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id				path		string				true	"职位 ID"
//	@Param			name			formData	string				true	"姓名"
//	@Param			email			formData	string				true	"邮箱"
//	@Param			phone_number	formData	string				false	"电话"
//	@Param			resume			formData	file				true	"PDF 简历"
//	@Success		201				{object}	types.ApplyResponse	"申请结果"
//	@Failure		400				{object}	types.ErrorResponse	"请求参数错误"
//	@Failure		409				{object}	types.ErrorResponse	"职位已关闭"
//	@Failure		502				{object}	types.ErrorResponse	"上传失败"
//	@Router			/api/v1/careers/{id}/apply [post]
func ApplyForJob(c *gin.Context) {
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

	var form types.ApplyForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, l, bindError(err))
		return
	}

	resume, err := readFile(form.Resume)
	if err != nil {
		writeError(c, l, err)
		return
	}

	applicant, err := svc.Careers.Apply(c.Request.Context(), id, service.ApplicantInput{
		Name:        form.Name,
		Email:       form.Email,
		PhoneNumber: form.PhoneNumber,
	}, resume)
	if err != nil {
		writeError(c, l, err)
		return
	}

	l.Info().Str("job_id", id).Str("applicant_id", applicant.ID).Msg("application received")
	c.JSON(http.StatusCreated, types.ApplyResponse{ApplicantID: applicant.ID, ResumeURL: applicant.ResumeURL})
}

// ListJobs 管理端全部职位.
//
//	@Summary	全部职位
//	@Tags		招聘管理
//	@Produce	json
//	@Success	200	{array}	model.JobPosting	"职位列表"
//	@Router		/api/v1/admin/jobs [get]
func ListJobs(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	jobs, err := svc.Careers.List(c.Request.Context())
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// CreateJob 新建职位.
//
//	@Summary	新建职位
//	@Tags		招聘管理
//	@Accept		json
//	@Produce	json
//	@Param		job	body		types.JobRequest	true	"职位"
//	@Success	201	{object}	model.JobPosting	"新职位"
//	@Failure	400	{object}	types.ErrorResponse	"请求参数错误"
//	@Router		/api/v1/admin/jobs [post]
func CreateJob(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	var req types.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, l, bindError(err))
		return
	}

	job, err := svc.Careers.Create(c.Request.Context(), principal(c), jobInput(req))
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// UpdateJob 更新职位.
//
//	@Summary	更新职位
//	@Tags		招聘管理
//	@Accept		json
//	@Produce	json
//	@Param		id	path		string				true	"职位 ID"
//	@Param		job	body		types.JobRequest	true	"职位"
//	@Success	200	{object}	model.JobPosting	"职位"
//	@Failure	404	{object}	types.ErrorResponse	"不存在"
//	@Router		/api/v1/admin/jobs/{id} [put]
func UpdateJob(c *gin.Context) {
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

	var req types.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, l, bindError(err))
		return
	}

	job, err := svc.Careers.Update(c.Request.Context(), principal(c), id, jobInput(req))
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob 删除职位及其申请.
//
//	@Summary	删除职位
//	@Tags		招聘管理
//	@Produce	json
//	@Param		id	path		string					true	"职位 ID"
//	@Success	200	{object}	types.MessageResponse	"已删除"
//	@Router		/api/v1/admin/jobs/{id} [delete]
func DeleteJob(c *gin.Context) {
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

	if err := svc.Careers.Delete(c.Request.Context(), principal(c), id); err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: "job deleted"})
}

// ListApplications 某职位的申请.
//
//	@Summary	职位申请
//	@Tags		招聘管理
//	@Produce	json
//	@Param		id	path	string				true	"职位 ID"
//	@Success	200	{array}	model.JobApplicant	"申请列表"
//	@Router		/api/v1/admin/jobs/{id}/applications [get]
func ListApplications(c *gin.Context) {
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

	apps, err := svc.Careers.Applications(c.Request.Context(), principal(c), id)
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

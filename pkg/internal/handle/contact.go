package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/types"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// SubmitContact 公开联系表单.
//
//	@Summary	提交联系表单
//	@Tags		线索
//	@Accept		json
//	@Produce	json
//	@Param		contact	body		types.ContactRequest	true	"联系表单"
//	@Success	201		{object}	types.ContactResponse	"已提交"
//	@Failure	400		{object}	types.ErrorResponse		"请求参数错误"
//	@Router		/api/v1/contact [post]
func SubmitContact(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	var req types.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, l, bindError(err))
		return
	}

	lead, err := svc.Leads.Submit(c.Request.Context(), service.LeadInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusCreated, types.ContactResponse{ID: lead.ID})
}

// ListLeads 管理端线索列表.
//
//	@Summary	线索列表
//	@Tags		线索
//	@Produce	json
//	@Success	200	{array}	model.ContactSubmission	"线索"
//	@Router		/api/v1/admin/leads [get]
func ListLeads(c *gin.Context) {
	l := log.Logger()

	svc, err := services(c)
	if err != nil {
		writeError(c, l, err)
		return
	}

	leads, err := svc.Leads.List(c.Request.Context(), principal(c))
	if err != nil {
		writeError(c, l, err)
		return
	}

	c.JSON(http.StatusOK, leads)
}

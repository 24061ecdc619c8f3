package controller

import (
	"career_compass_backend/internal/service"
	"career_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Service *service.CatalogService
}

func NewCatalogController(svc *service.CatalogService) *CatalogController {
	return &CatalogController{Service: svc}
}

// @Summary 获取测评类型
// @Tags 测评
// @Produce json
// @Success 200 {object} util.Response{data=[]model.AssessmentType}
// @Router /api/assessment-types [get]
func (c *CatalogController) ListAssessmentTypes(ctx *gin.Context) {
	types, err := c.Service.ListAssessmentTypes(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, types)
}

package controller

import (
	"career_compass_backend/internal/service"
	"career_compass_backend/internal/util"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

type DraftController struct {
	Service *service.DraftService
}

func NewDraftController(svc *service.DraftService) *DraftController {
	return &DraftController{Service: svc}
}

// @Summary 创建答题草稿
// @Tags 草稿
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateDraftRequest true "草稿"
// @Success 201 {object} util.Response{data=service.DraftView}
// @Router /api/drafts [post]
func (c *DraftController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft, err := c.Service.Create(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, draft)
}

// @Summary 获取我的草稿列表
// @Tags 草稿
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.DraftView}
// @Router /api/drafts [get]
func (c *DraftController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	drafts, err := c.Service.List(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, drafts)
}

// @Summary 获取草稿
// @Tags 草稿
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "草稿UUID"
// @Success 200 {object} util.Response{data=service.DraftView}
// @Router /api/drafts/{id} [get]
func (c *DraftController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, err := util.ParseUUIDParam(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	draft, err := c.Service.Get(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, draft)
}

// @Summary 更新草稿答案
// @Description 仅允许 answers（整体替换）与 answers_merge（合并）字段
// @Tags 草稿
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "草稿UUID"
// @Param body body object true "部分更新"
// @Success 200 {object} util.Response{data=service.DraftView}
// @Router /api/drafts/{id} [patch]
func (c *DraftController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, err := util.ParseUUIDParam(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	var patch map[string]json.RawMessage
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft, err := c.Service.Update(ctx.Request.Context(), user.UserID, id, patch)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, draft)
}

// @Summary 删除草稿
// @Tags 草稿
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "草稿UUID"
// @Success 200 {object} util.Response
// @Router /api/drafts/{id} [delete]
func (c *DraftController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, err := util.ParseUUIDParam(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if err := c.Service.Delete(ctx.Request.Context(), user.UserID, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 提交草稿
// @Tags 草稿
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "草稿UUID"
// @Success 201 {object} util.Response{data=SubmitAssessmentResponse}
// @Router /api/drafts/{id}/submit [post]
func (c *DraftController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, err := util.ParseUUIDParam(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	res, err := c.Service.Submit(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, SubmitAssessmentResponse{
		TestUUID: res.Test.UUID,
		TestName: res.Test.Name,
		Result:   res.Result,
	})
}

package controller

import (
	"career_compass_backend/internal/service"
	"career_compass_backend/internal/util"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	Service *service.TestService
}

func NewTestController(svc *service.TestService) *TestController {
	return &TestController{Service: svc}
}

// @Summary 获取我的测试记录
// @Tags 测试记录
// @Produce json
// @Security ApiKeyAuth
// @Param category query string false "测评类型"
// @Success 200 {object} util.Response{data=[]service.TestSummary}
// @Router /api/tests [get]
func (c *TestController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	tests, err := c.Service.List(ctx.Request.Context(), user.UserID, ctx.Query("category"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// @Summary 获取测试结果
// @Tags 测试记录
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测试UUID"
// @Success 200 {object} util.Response{data=service.TestResult}
// @Router /api/tests/{id}/result [get]
func (c *TestController) Result(ctx *gin.Context) {
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

	result, err := c.Service.GetResult(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 导出测试结果
// @Description 返回 xlsx 文件；upload=true 时上传至存储并返回地址
// @Tags 测试记录
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param id path string true "测试UUID"
// @Param upload query bool false "上传至存储"
// @Success 200 {file} file
// @Router /api/tests/{id}/export [get]
func (c *TestController) Export(ctx *gin.Context) {
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
	upload, _ := strconv.ParseBool(ctx.DefaultQuery("upload", "false"))

	file, err := c.Service.Export(ctx.Request.Context(), user.UserID, id, upload)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if upload {
		util.Success(ctx, gin.H{"name": file.Name, "url": file.URL})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	ctx.Data(http.StatusOK, util.MimeXLSX, file.Data)
}

// @Summary 删除测试
// @Tags 测试记录
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测试UUID"
// @Success 200 {object} util.Response
// @Router /api/tests/{id} [delete]
func (c *TestController) Delete(ctx *gin.Context) {
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

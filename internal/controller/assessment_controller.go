package controller

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/service"
	"career_compass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

type SubmitAssessmentRequest struct {
	Answers  map[string]interface{} `json:"answers" binding:"required"`
	TestUUID string                 `json:"test_uuid"`
}

type SubmitAssessmentResponse struct {
	TestUUID string      `json:"test_uuid"`
	TestName string      `json:"test_name"`
	Result   interface{} `json:"result"`
}

// @Summary 提交测评答案
// @Description 对答案打分、匹配目录并推荐职业；结果与测试一并持久化
// @Tags 测评
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param category path string true "测评类型 (personality, interest, skill, learning-style, value)"
// @Param body body SubmitAssessmentRequest true "答案"
// @Success 201 {object} util.Response{data=SubmitAssessmentResponse}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assessments/{category}/submit [post]
func (c *AssessmentController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	category, ok := model.ParseCategory(ctx.Param("category"))
	if !ok {
		util.BadRequest(ctx, util.ErrUnknownCategory.Error())
		return
	}

	var req SubmitAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.TestUUID != "" {
		id, err := util.ParseUUIDParam(req.TestUUID)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		req.TestUUID = id
	}

	res, err := c.Service.Submit(ctx.Request.Context(), service.SubmitRequest{
		Category: category,
		UserID:   user.UserID,
		Answers:  req.Answers,
		TestUUID: req.TestUUID,
	})
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

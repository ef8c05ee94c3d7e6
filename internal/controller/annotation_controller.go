package controller

import (
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/service"
	"k12_kg_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnnotationController struct {
	Service *service.AnnotationService
}

func NewAnnotationController(svc *service.AnnotationService) *AnnotationController {
	return &AnnotationController{Service: svc}
}

func suggestResponse(suggestions []model.Suggestion) model.SuggestResponse {
	msg := "未找到匹配的知识点"
	if len(suggestions) > 0 {
		msg = "已生成知识点推荐"
	}
	return model.SuggestResponse{Suggestions: suggestions, Count: len(suggestions), Message: msg}
}

// @Summary 关键词知识点推荐
// @Tags 标注
// @Accept json
// @Produce json
// @Param body body model.SuggestRequest true "题目内容"
// @Success 200 {object} model.SuggestResponse
// @Router /api/annotation/suggest [post]
func (c *AnnotationController) Suggest(ctx *gin.Context) {
	var req model.SuggestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	suggestions, err := c.Service.Suggest(ctx.Request.Context(), req.QuestionContent, req.QuestionType)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, suggestResponse(suggestions))
}

// @Summary AI 知识点推荐
// @Tags 标注
// @Accept json
// @Produce json
// @Param body body model.SuggestRequest true "题目内容"
// @Success 200 {object} model.SuggestResponse
// @Failure 503 {object} util.Response
// @Router /api/annotation/ai-suggest [post]
func (c *AnnotationController) AISuggest(ctx *gin.Context) {
	var req model.SuggestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	suggestions, err := c.Service.AISuggest(ctx.Request.Context(), req.QuestionContent, req.QuestionType)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, suggestResponse(suggestions))
}

// @Summary 提交人工标注
// @Description 以提交内容整体替换题目原有标注
// @Tags 标注
// @Accept json
// @Produce json
// @Param body body model.SubmitAnnotationRequest true "标注"
// @Success 200 {object} map[string]interface{}
// @Router /api/annotation/submit [post]
func (c *AnnotationController) Submit(ctx *gin.Context) {
	var req model.SubmitAnnotationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	kps, err := c.Service.Submit(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"question_id": req.QuestionID, "knowledge_points": kps})
}

// @Summary 自动标注日志
// @Tags 标注
// @Produce json
// @Param question_id query string false "题目ID"
// @Param limit query int false "数量" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /api/annotation/logs [get]
func (c *AnnotationController) Logs(ctx *gin.Context) {
	logs, err := c.Service.Logs(ctx.Query("question_id"), util.ParseIntDefault(ctx.Query("limit"), 20))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"logs": logs})
}

// @Summary 触发单题自动标注
// @Tags AI Agent
// @Produce json
// @Param id path string true "题目ID"
// @Success 200 {object} model.AutoAnnotateResult
// @Failure 404 {object} util.Response
// @Router /api/ai-agent/trigger-auto-annotation/{id} [post]
func (c *AnnotationController) TriggerAutoAnnotation(ctx *gin.Context) {
	result, err := c.Service.AutoAnnotate(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 批量自动标注未标注题目
// @Tags AI Agent
// @Produce json
// @Param limit query int false "最多处理数量，0 表示全部" default(0)
// @Success 200 {object} model.BatchAnnotateResult
// @Router /api/ai-agent/batch-auto-annotate [post]
func (c *AnnotationController) BatchAutoAnnotate(ctx *gin.Context) {
	result, err := c.Service.BatchAutoAnnotate(ctx.Request.Context(), util.ParseIntDefault(ctx.Query("limit"), 0))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 当前自动标注阈值
// @Tags AI Agent
// @Produce json
// @Success 200 {object} config.AnnotationConfig
// @Router /api/ai-agent/config [get]
func (c *AnnotationController) Config(ctx *gin.Context) {
	util.Success(ctx, c.Service.Config())
}

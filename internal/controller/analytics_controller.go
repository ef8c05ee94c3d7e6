package controller

import (
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/service"
	"k12_kg_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Service *service.AnalyticsService
}

func NewAnalyticsController(svc *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Service: svc}
}

// @Summary 知识点覆盖分析
// @Tags 统计
// @Produce json
// @Success 200 {object} model.CoverageAnalysis
// @Router /api/analytics/coverage [get]
func (c *AnalyticsController) Coverage(ctx *gin.Context) {
	result, err := c.Service.Coverage(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 难度分布
// @Tags 统计
// @Produce json
// @Success 200 {object} model.DifficultyDistribution
// @Router /api/analytics/difficulty-distribution [get]
func (c *AnalyticsController) DifficultyDistribution(ctx *gin.Context) {
	result, err := c.Service.DifficultyDistribution(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 题型分布
// @Tags 统计
// @Produce json
// @Success 200 {object} model.TypeDistribution
// @Router /api/analytics/type-distribution [get]
func (c *AnalyticsController) TypeDistribution(ctx *gin.Context) {
	result, err := c.Service.TypeDistribution(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 仪表板统计
// @Tags 统计
// @Produce json
// @Success 200 {object} model.DashboardStats
// @Router /api/analytics/dashboard-stats [get]
func (c *AnalyticsController) DashboardStats(ctx *gin.Context) {
	result, err := c.Service.DashboardStats(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary AI 标注准确率
// @Tags 统计
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(15)
// @Param difficulty query string false "难度"
// @Param question_type query string false "题型"
// @Success 200 {object} model.AIAgentAccuracy
// @Router /api/analytics/ai-agent-accuracy [get]
func (c *AnalyticsController) AIAgentAccuracy(ctx *gin.Context) {
	filter := model.QuestionFilter{
		Difficulty:   ctx.Query("difficulty"),
		QuestionType: ctx.Query("question_type"),
	}
	page := util.ParseIntDefault(ctx.Query("page"), 1)
	pageSize := util.ParseIntDefault(ctx.Query("page_size"), service.AccuracyPageSize)

	result, err := c.Service.AIAgentAccuracy(ctx.Request.Context(), filter, page, pageSize)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

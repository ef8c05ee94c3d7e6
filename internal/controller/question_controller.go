package controller

import (
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/service"
	"k12_kg_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc}
}

// @Summary 分页查询题目
// @Description 页码越界时由服务端截断，响应中的 pagination 为最终页码
// @Tags 题目
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param difficulty query string false "难度"
// @Param question_type query string false "题型"
// @Param grade_level query string false "年级"
// @Param source query string false "来源"
// @Success 200 {object} model.QuestionPage
// @Router /api/questions/ [get]
func (c *QuestionController) List(ctx *gin.Context) {
	var filter model.QuestionFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	page := util.ParseIntDefault(ctx.Query("page"), 1)
	pageSize := util.ParseIntDefault(ctx.Query("page_size"), model.DefaultPageSize)

	result, err := c.Service.ListQuestions(filter, page, pageSize)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 创建题目
// @Tags 题目
// @Accept json
// @Produce json
// @Param body body model.QuestionImport true "题目"
// @Success 201 {object} model.Question
// @Failure 400 {object} util.Response
// @Router /api/questions/ [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req model.QuestionImport
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

type importRequest struct {
	Questions    []model.QuestionImport `json:"questions" binding:"required,dive"`
	AutoAnnotate bool                   `json:"auto_annotate"`
}

// @Summary 批量导入题目
// @Tags 题目
// @Accept json
// @Produce json
// @Param body body importRequest true "题目列表"
// @Success 200 {object} model.ImportResult
// @Router /api/questions/import [post]
func (c *QuestionController) Import(ctx *gin.Context) {
	var req importRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Import(ctx.Request.Context(), req.Questions, req.AutoAnnotate)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 按知识点名称查询题目
// @Tags 题目
// @Produce json
// @Param name path string true "知识点名称"
// @Success 200 {object} map[string]interface{}
// @Router /api/questions/by-knowledge/{name} [get]
func (c *QuestionController) ByKnowledge(ctx *gin.Context) {
	name := ctx.Param("name")
	qs, err := c.Service.QuestionsByKnowledge(name)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"knowledge_point": name, "questions": qs, "count": len(qs)})
}

// @Summary 题目关联的知识点
// @Tags 题目
// @Produce json
// @Param id path string true "题目ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/knowledge [get]
func (c *QuestionController) Knowledge(ctx *gin.Context) {
	kps, err := c.Service.KnowledgeOf(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"knowledge_points": kps})
}

// @Summary 为题目标注知识点
// @Tags 题目
// @Produce json
// @Param id path string true "题目ID"
// @Param kpId path string true "知识点ID"
// @Param weight query number false "权重 (0,1]" default(1)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/knowledge/{kpId} [post]
func (c *QuestionController) Link(ctx *gin.Context) {
	weight := util.ParseFloatDefault(ctx.Query("weight"), 1.0)
	err := c.Service.LinkKnowledge(ctx.Request.Context(), ctx.Param("id"), ctx.Param("kpId"), weight)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "linked"})
}

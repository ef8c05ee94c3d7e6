package controller

import (
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/service"
	"k12_kg_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type KnowledgePointController struct {
	Service *service.KnowledgePointService
}

func NewKnowledgePointController(svc *service.KnowledgePointService) *KnowledgePointController {
	return &KnowledgePointController{Service: svc}
}

// @Summary 创建知识点
// @Tags 知识点
// @Accept json
// @Produce json
// @Param body body model.KnowledgePointInput true "知识点信息"
// @Success 201 {object} model.KnowledgePoint
// @Failure 409 {object} util.Response
// @Router /api/knowledge/ [post]
func (c *KnowledgePointController) Create(ctx *gin.Context) {
	var req model.KnowledgePointInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	kp, err := c.Service.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, kp)
}

// @Summary 搜索知识点
// @Tags 知识点
// @Produce json
// @Param keyword query string false "关键字，为空返回全部"
// @Success 200 {object} map[string]interface{}
// @Router /api/knowledge/search [get]
func (c *KnowledgePointController) Search(ctx *gin.Context) {
	kps, err := c.Service.Search(ctx.Query("keyword"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"knowledge_points": kps, "count": len(kps)})
}

// @Summary 获取知识点
// @Tags 知识点
// @Produce json
// @Param id path string true "知识点ID"
// @Success 200 {object} model.KnowledgePoint
// @Failure 404 {object} util.Response
// @Router /api/knowledge/{id} [get]
func (c *KnowledgePointController) Get(ctx *gin.Context) {
	kp, err := c.Service.Get(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, kp)
}

// @Summary 建立父子关系
// @Tags 知识点
// @Produce json
// @Param id path string true "父知识点ID"
// @Param childId path string true "子知识点ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.Response
// @Router /api/knowledge/{id}/children/{childId} [post]
func (c *KnowledgePointController) LinkChild(ctx *gin.Context) {
	if err := c.Service.LinkChild(ctx.Request.Context(), ctx.Param("id"), ctx.Param("childId")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "linked"})
}

// @Summary 知识点层级树
// @Tags 知识点
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/knowledge/hierarchy/tree [get]
func (c *KnowledgePointController) Hierarchy(ctx *gin.Context) {
	tree, err := c.Service.Hierarchy()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"hierarchy": tree})
}

// @Summary 添加前置知识点
// @Tags 知识点
// @Accept json
// @Produce json
// @Param id path string true "知识点ID"
// @Param body body model.PrerequisiteInput true "前置知识点"
// @Success 200 {object} map[string]interface{}
// @Router /api/knowledge/{id}/prerequisites [post]
func (c *KnowledgePointController) AddPrerequisite(ctx *gin.Context) {
	var req model.PrerequisiteInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.Service.AddPrerequisite(ctx.Request.Context(), ctx.Param("id"), req); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "linked"})
}

// @Summary 前置知识点列表
// @Tags 知识点
// @Produce json
// @Param id path string true "知识点ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/knowledge/{id}/prerequisites [get]
func (c *KnowledgePointController) Prerequisites(ctx *gin.Context) {
	ps, err := c.Service.Prerequisites(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"prerequisites": ps})
}

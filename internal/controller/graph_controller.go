package controller

import (
	"k12_kg_backend/internal/service"
	"k12_kg_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GraphController struct {
	Sync   *service.GraphSyncService
	Export *service.ExportService
}

func NewGraphController(sync *service.GraphSyncService, export *service.ExportService) *GraphController {
	return &GraphController{Sync: sync, Export: export}
}

// @Summary 全量同步到 Neo4j
// @Tags 图谱
// @Produce json
// @Success 200 {object} model.GraphSyncResult
// @Failure 503 {object} util.Response
// @Router /api/graph/sync [post]
func (c *GraphController) SyncAll(ctx *gin.Context) {
	result, err := c.Sync.SyncAll(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 导出知识图谱快照
// @Tags 图谱
// @Produce json
// @Success 200 {object} model.ExportResult
// @Router /api/export [post]
func (c *GraphController) ExportSnapshot(ctx *gin.Context) {
	result, err := c.Export.Export(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

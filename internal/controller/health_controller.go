package controller

import (
	"k12_kg_backend/internal/util"
	"k12_kg_backend/pkg/database"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
	Neo4j *database.Neo4jClient
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, neo *database.Neo4jClient) *HealthController {
	return &HealthController{DB: db, Redis: rdb, Neo4j: neo}
}

// @Summary 健康检查
// @Description 检查服务及依赖组件状态
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	components := gin.H{
		"database": "up",
		"redis":    "disabled",
		"neo4j":    "disabled",
	}
	if c.Redis != nil {
		components["redis"] = "up"
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			components["redis"] = "down"
		}
	}
	if c.Neo4j != nil && c.Neo4j.Driver != nil {
		components["neo4j"] = "up"
		if err := c.Neo4j.Driver.VerifyConnectivity(ctx.Request.Context()); err != nil {
			components["neo4j"] = "down"
		}
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}

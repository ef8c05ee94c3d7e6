package app

import (
	"k12_kg_backend/docs"
	"k12_kg_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	registerAPIRoutes(router.Group("/api"), c)
}

// registerAPIRoutes 注册 /api 下的全部业务路由
func registerAPIRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/health", c.health.HealthCheck)

	questions := api.Group("/questions")
	{
		questions.GET("/", c.question.List)
		questions.POST("/", c.question.Create)
		questions.POST("/import", c.question.Import)
		questions.GET("/by-knowledge/:name", c.question.ByKnowledge)
		questions.GET("/:id/knowledge", c.question.Knowledge)
		questions.POST("/:id/knowledge/:kpId", c.question.Link)
	}

	knowledge := api.Group("/knowledge")
	{
		knowledge.POST("/", c.knowledgePoint.Create)
		knowledge.GET("/search", c.knowledgePoint.Search)
		knowledge.GET("/hierarchy/tree", c.knowledgePoint.Hierarchy)
		knowledge.GET("/:id", c.knowledgePoint.Get)
		knowledge.POST("/:id/children/:childId", c.knowledgePoint.LinkChild)
		knowledge.POST("/:id/prerequisites", c.knowledgePoint.AddPrerequisite)
		knowledge.GET("/:id/prerequisites", c.knowledgePoint.Prerequisites)
	}

	annotation := api.Group("/annotation")
	{
		annotation.POST("/suggest", c.annotation.Suggest)
		annotation.POST("/ai-suggest", c.annotation.AISuggest)
		annotation.POST("/submit", c.annotation.Submit)
		annotation.GET("/logs", c.annotation.Logs)
	}

	agent := api.Group("/ai-agent")
	{
		agent.POST("/trigger-auto-annotation/:id", c.annotation.TriggerAutoAnnotation)
		agent.POST("/batch-auto-annotate", c.annotation.BatchAutoAnnotate)
		agent.GET("/config", c.annotation.Config)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/coverage", c.analytics.Coverage)
		analytics.GET("/difficulty-distribution", c.analytics.DifficultyDistribution)
		analytics.GET("/type-distribution", c.analytics.TypeDistribution)
		analytics.GET("/dashboard-stats", c.analytics.DashboardStats)
		analytics.GET("/ai-agent-accuracy", c.analytics.AIAgentAccuracy)
	}

	api.POST("/graph/sync", c.graph.SyncAll)
	api.POST("/export", c.graph.ExportSnapshot)
}

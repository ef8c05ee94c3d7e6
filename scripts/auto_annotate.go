// 手动触发批量自动标注脚本
//
// 服务启动后可通过 POST /api/ai-agent/batch-auto-annotate 触发同样的任务，
// 此脚本用于首次部署或大批量导入题目后在命令行直接执行。
//
// 用法: go run scripts/auto_annotate.go -limit 200

package main

import (
	"context"
	"flag"
	"k12_kg_backend/internal/config"
	"k12_kg_backend/internal/repository"
	"k12_kg_backend/internal/service"
	"k12_kg_backend/pkg/database"
	"k12_kg_backend/pkg/logger"
	"log"
	"time"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	limit := flag.Int("limit", 100, "本次最多处理的未标注题目数")
	timeout := flag.Duration("timeout", 30*time.Minute, "整体超时")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	neo, err := database.InitNeo4j(&cfg.Neo4j)
	if err != nil {
		logger.Log.Warn("Neo4j unavailable, graph sync disabled", zap.Error(err))
		neo = nil
	}

	questionRepo := repository.NewQuestionRepository(db)
	kpRepo := repository.NewKnowledgePointRepository(db)
	graph := service.NewGraphSyncService(neo, questionRepo, kpRepo)

	// 脚本不连接 Redis，服务端缓存按 TTL 自然过期
	analytics := service.NewAnalyticsService(
		repository.NewAnalyticsRepository(db),
		questionRepo,
		kpRepo,
		service.NewAnalyticsCache(nil, 0),
	)
	annotation := service.NewAnnotationService(
		questionRepo,
		kpRepo,
		repository.NewAnnotationLogRepository(db),
		service.NewAIService(cfg.AI),
		analytics,
		graph,
		cfg.Annotation,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log.Printf("手动触发批量自动标注任务 (limit=%d)...", *limit)
	result, err := annotation.BatchAutoAnnotate(ctx, *limit)
	if err != nil {
		log.Fatalf("批量自动标注失败: %v", err)
	}
	log.Printf("完成！处理 %d 题，应用标注 %d 题，失败 %d 题", result.Processed, result.Applied, result.Failed)

	if err := neo.Close(ctx); err != nil {
		logger.Log.Warn("Failed to close neo4j driver", zap.Error(err))
	}
}

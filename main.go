// @title K12 英语知识图谱标注服务 API
// @version 1.0
// @description 题目、知识点、自动标注与统计分析接口。

// @host localhost:8000
// @BasePath /api

package main

import (
	"flag"
	"k12_kg_backend/internal/app"
	"k12_kg_backend/internal/config"
	"k12_kg_backend/pkg/logger"
	"log"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移与初始数据写入，完成后退出")
	seed := flag.Bool("seed", false, "知识点表为空时写入默认知识点目录与示例题目")
	configDir := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly
	cfg.Seed = *seed

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}

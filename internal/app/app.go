package app

import (
	"context"
	"k12_kg_backend/internal/config"
	"k12_kg_backend/internal/controller"
	"k12_kg_backend/internal/middleware"
	"k12_kg_backend/internal/repository"
	"k12_kg_backend/internal/service"
	"k12_kg_backend/pkg/configwatcher"
	"k12_kg_backend/pkg/database"
	"k12_kg_backend/pkg/logger"
	"k12_kg_backend/pkg/monitoring"
	"k12_kg_backend/pkg/security"
	"k12_kg_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Neo4j           *database.Neo4jClient
	services        *services
	tracer          *sdktrace.TracerProvider
	stopBackground  context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	question       *repository.QuestionRepository
	knowledgePoint *repository.KnowledgePointRepository
	analytics      *repository.AnalyticsRepository
	annotationLog  *repository.AnnotationLogRepository
}

type services struct {
	ai             *service.AIService
	storage        *service.StorageService
	graph          *service.GraphSyncService
	analytics      *service.AnalyticsService
	question       *service.QuestionService
	knowledgePoint *service.KnowledgePointService
	annotation     *service.AnnotationService
	export         *service.ExportService
}

type controllers struct {
	health         *controller.HealthController
	question       *controller.QuestionController
	knowledgePoint *controller.KnowledgePointController
	annotation     *controller.AnnotationController
	analytics      *controller.AnalyticsController
	graph          *controller.GraphController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		question:       repository.NewQuestionRepository(db),
		knowledgePoint: repository.NewKnowledgePointRepository(db),
		analytics:      repository.NewAnalyticsRepository(db),
		annotationLog:  repository.NewAnnotationLogRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client, neo *database.Neo4jClient) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.storage = service.NewStorageService(cfg)
	s.graph = service.NewGraphSyncService(neo, repos.question, repos.knowledgePoint)
	s.analytics = service.NewAnalyticsService(
		repos.analytics,
		repos.question,
		repos.knowledgePoint,
		service.NewAnalyticsCache(rdb, cfg.Redis.CacheTTL),
	)
	s.question = service.NewQuestionService(repos.question, repos.knowledgePoint, s.analytics, s.graph)
	s.knowledgePoint = service.NewKnowledgePointService(repos.knowledgePoint, s.analytics, s.graph)
	s.annotation = service.NewAnnotationService(
		repos.question,
		repos.knowledgePoint,
		repos.annotationLog,
		s.ai,
		s.analytics,
		s.graph,
		cfg.Annotation,
	)
	s.question.SetAnnotator(s.annotation)
	s.export = service.NewExportService(repos.question, repos.knowledgePoint, s.storage)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		health:         controller.NewHealthController(a.DB, a.Redis, a.Neo4j),
		question:       controller.NewQuestionController(s.question),
		knowledgePoint: controller.NewKnowledgePointController(s.knowledgePoint),
		annotation:     controller.NewAnnotationController(s.annotation),
		analytics:      controller.NewAnalyticsController(s.analytics),
		graph:          controller.NewGraphController(s.graph, s.export),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.Recovery())
	router.Use(middleware.AccessLog())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window, "/api/health", "/metrics"))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// onConfigReload 热更新日志级别与标注阈值，其余配置需重启生效
func (a *App) onConfigReload(newCfg *config.Config) {
	logger.SetMode(newCfg.Server.Mode)
	if a.services != nil {
		if err := a.services.annotation.UpdateConfig(newCfg.Annotation); err != nil {
			logger.Log.Warn("Rejected annotation config", zap.Error(err))
		}
	}
	for _, cb := range a.configCallbacks {
		cb(newCfg)
	}
}

func (a *App) startBackgroundTasks(cfg *config.Config) {
	bg, cancel := context.WithCancel(context.Background())
	a.stopBackground = cancel

	if cfg.Server.WatchConfig {
		w := configwatcher.New(filepath.Join(cfg.ConfigDir, "config.yaml"), a.onConfigReload)
		go func() {
			if err := w.Run(bg); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	if a.services.graph.Enabled() {
		go func() {
			ctx, cancel := context.WithTimeout(bg, time.Minute)
			defer cancel()
			if _, err := a.services.graph.SyncAll(ctx); err != nil {
				logger.Log.Warn("Initial graph sync failed", zap.Error(err))
			}
		}()
	}

	go a.services.analytics.Warm(bg)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	if cfg.Seed || cfg.MigrateOnly {
		if err := database.Seed(db); err != nil {
			logger.Log.Fatal("Failed to seed database", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb

	neo, err := database.InitNeo4j(&cfg.Neo4j)
	if err != nil {
		// 图谱镜像不是主存储，连接失败时降级运行
		logger.Log.Warn("Neo4j unavailable, graph sync disabled", zap.Error(err))
		neo = nil
	}
	app.Neo4j = neo

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, rdb, neo)
	controllers := app.initControllers(app.services)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("k12-kg-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	if a.stopBackground != nil {
		a.stopBackground()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if err := a.Neo4j.Close(ctx); err != nil {
		logger.Log.Warn("Failed to close neo4j driver", zap.Error(err))
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}

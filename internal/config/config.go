package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Neo4j      Neo4jConfig      `mapstructure:"neo4j"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	AI         AIConfig         `mapstructure:"ai"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Annotation AnnotationConfig `mapstructure:"annotation"`
	Dashboard  DashboardConfig  `mapstructure:"dashboard"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	MigrateOnly bool   `mapstructure:"-"`
	Seed        bool   `mapstructure:"-"`
	ConfigDir   string `mapstructure:"-"`
}

type ServerConfig struct {
	Port        string
	Mode        string
	WatchConfig bool `mapstructure:"watch_config"`
}

type DatabaseConfig struct {
	Driver    string // mysql | sqlite
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	Path      string // sqlite 文件路径
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	CacheTTL time.Duration `mapstructure:"cache_ttl_seconds"`
}

type Neo4jConfig struct {
	URI            string `mapstructure:"uri"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Database       string `mapstructure:"database"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxPoolSize    int    `mapstructure:"max_pool_size"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// AnnotationConfig 自动标注阈值，支持热更新
type AnnotationConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	AutoApplyThreshold  float64 `mapstructure:"auto_apply_threshold"`
	MaxAutoAnnotations  int     `mapstructure:"max_auto_annotations"`
	HistoryBoost        float64 `mapstructure:"history_boost"`
}

type DashboardConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	PageSize       int    `mapstructure:"page_size"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func setDefaults() {
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "data/kg.db")
	viper.SetDefault("database.charset", "utf8mb4")
	viper.SetDefault("database.parsetime", true)
	viper.SetDefault("redis.cache_ttl_seconds", 60)
	viper.SetDefault("neo4j.user", "neo4j")
	viper.SetDefault("neo4j.timeout_seconds", 10)
	viper.SetDefault("neo4j.max_pool_size", 50)
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local_path", "exports")
	viper.SetDefault("rate_limit.max_requests", 6000)
	viper.SetDefault("rate_limit.window_minutes", 1)
	viper.SetDefault("annotation.confidence_threshold", 0.3)
	viper.SetDefault("annotation.auto_apply_threshold", 0.7)
	viper.SetDefault("annotation.max_auto_annotations", 5)
	viper.SetDefault("annotation.history_boost", 0.1)
	viper.SetDefault("dashboard.base_url", "http://localhost:8000/api")
	viper.SetDefault("dashboard.page_size", 20)
	viper.SetDefault("dashboard.timeout_seconds", 15)
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("KG")
	viper.AutomaticEnv()

	setDefaults()

	// Database
	viper.BindEnv("database.driver", "DATABASE_DRIVER")
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Neo4j
	viper.BindEnv("neo4j.uri", "NEO4J_URI")
	viper.BindEnv("neo4j.user", "NEO4J_USER")
	viper.BindEnv("neo4j.password", "NEO4J_PASSWORD")
	viper.BindEnv("neo4j.database", "NEO4J_DATABASE")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	viper.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	viper.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	viper.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Redis.CacheTTL = cfg.Redis.CacheTTL * time.Second
	cfg.ConfigDir = path

	if err := cfg.Annotation.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (a AnnotationConfig) Validate() error {
	if a.ConfidenceThreshold < 0 || a.ConfidenceThreshold > 1 {
		return fmt.Errorf("annotation.confidence_threshold must be within [0,1], got %v", a.ConfidenceThreshold)
	}
	if a.AutoApplyThreshold < a.ConfidenceThreshold || a.AutoApplyThreshold > 1 {
		return fmt.Errorf("annotation.auto_apply_threshold must be within [confidence_threshold,1], got %v", a.AutoApplyThreshold)
	}
	if a.MaxAutoAnnotations <= 0 {
		return fmt.Errorf("annotation.max_auto_annotations must be positive, got %d", a.MaxAutoAnnotations)
	}
	return nil
}

// DefaultAnnotationConfig 与 setDefaults 中的默认值保持一致
func DefaultAnnotationConfig() AnnotationConfig {
	return AnnotationConfig{
		ConfidenceThreshold: 0.3,
		AutoApplyThreshold:  0.7,
		MaxAutoAnnotations:  5,
		HistoryBoost:        0.1,
	}
}

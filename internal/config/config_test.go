package config

import "testing"

func TestAnnotationConfigValidate(t *testing.T) {
	if err := DefaultAnnotationConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	cases := []struct {
		name string
		cfg  AnnotationConfig
	}{
		{"negative confidence", AnnotationConfig{ConfidenceThreshold: -0.1, AutoApplyThreshold: 0.7, MaxAutoAnnotations: 5}},
		{"confidence above one", AnnotationConfig{ConfidenceThreshold: 1.2, AutoApplyThreshold: 1, MaxAutoAnnotations: 5}},
		{"auto apply below confidence", AnnotationConfig{ConfidenceThreshold: 0.5, AutoApplyThreshold: 0.4, MaxAutoAnnotations: 5}},
		{"auto apply above one", AnnotationConfig{ConfidenceThreshold: 0.3, AutoApplyThreshold: 1.5, MaxAutoAnnotations: 5}},
		{"no annotations", AnnotationConfig{ConfidenceThreshold: 0.3, AutoApplyThreshold: 0.7}},
	}
	for _, c := range cases {
		if err := c.cfg.Validate(); err == nil {
			t.Fatalf("%s: want error", c.name)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	// 避免在测试目录下创建本地导出目录
	t.Setenv("STORAGE_TYPE", "minio")
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Dashboard.PageSize != 20 || cfg.Annotation != DefaultAnnotationConfig() {
		t.Fatalf("defaults: dashboard=%+v annotation=%+v", cfg.Dashboard, cfg.Annotation)
	}
	if cfg.Redis.CacheTTL.Seconds() != 60 {
		t.Fatalf("cache ttl: want=60s got=%v", cfg.Redis.CacheTTL)
	}
}

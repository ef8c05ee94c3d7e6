package service

import (
	"context"
	"testing"

	"k12_kg_backend/internal/config"
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/repository"
	"k12_kg_backend/pkg/database"
)

type testEnv struct {
	questionRepo *repository.QuestionRepository
	kpRepo       *repository.KnowledgePointRepository
	logRepo      *repository.AnnotationLogRepository

	analytics  *AnalyticsService
	questions  *QuestionService
	knowledge  *KnowledgePointService
	annotation *AnnotationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	e := &testEnv{
		questionRepo: repository.NewQuestionRepository(db),
		kpRepo:       repository.NewKnowledgePointRepository(db),
		logRepo:      repository.NewAnnotationLogRepository(db),
	}
	graph := NewGraphSyncService(nil, e.questionRepo, e.kpRepo)
	e.analytics = NewAnalyticsService(repository.NewAnalyticsRepository(db), e.questionRepo, e.kpRepo, NewAnalyticsCache(nil, 0))
	e.questions = NewQuestionService(e.questionRepo, e.kpRepo, e.analytics, graph)
	e.knowledge = NewKnowledgePointService(e.kpRepo, e.analytics, graph)
	e.annotation = NewAnnotationService(e.questionRepo, e.kpRepo, e.logRepo, nil, e.analytics, graph, config.DefaultAnnotationConfig())
	e.questions.SetAnnotator(e.annotation)
	return e
}

func (e *testEnv) mustKP(t *testing.T, name string, keywords ...string) *model.KnowledgePoint {
	t.Helper()
	kp, err := e.knowledge.Create(context.Background(), model.KnowledgePointInput{Name: name, Keywords: keywords})
	if err != nil {
		t.Fatalf("create knowledge point %s: %v", name, err)
	}
	return kp
}

func (e *testEnv) mustQuestion(t *testing.T, in model.QuestionImport) *model.Question {
	t.Helper()
	q, err := e.questions.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

// fakeSuggester 固定返回给定的模型推荐
type fakeSuggester struct {
	out []AISuggestion
	err error
}

func (f *fakeSuggester) Enabled() bool { return true }

func (f *fakeSuggester) SuggestKnowledgePoints(ctx context.Context, content, questionType string, candidates []string) ([]AISuggestion, error) {
	return f.out, f.err
}

package service

import (
	"context"
	"fmt"
	"k12_kg_backend/internal/accuracy"
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/repository"
	"k12_kg_backend/internal/util"
	"time"
)

// AccuracyPageSize ai-agent-accuracy 明细的默认分页大小
const AccuracyPageSize = 15

type AnalyticsService struct {
	Repo         *repository.AnalyticsRepository
	QuestionRepo *repository.QuestionRepository
	KPRepo       *repository.KnowledgePointRepository
	cache        *AnalyticsCache
}

func NewAnalyticsService(
	repo *repository.AnalyticsRepository,
	questionRepo *repository.QuestionRepository,
	kpRepo *repository.KnowledgePointRepository,
	cache *AnalyticsCache,
) *AnalyticsService {
	return &AnalyticsService{
		Repo:         repo,
		QuestionRepo: questionRepo,
		KPRepo:       kpRepo,
		cache:        cache,
	}
}

func (s *AnalyticsService) Invalidate(ctx context.Context) {
	s.cache.invalidate(ctx)
}

func (s *AnalyticsService) Coverage(ctx context.Context) (*model.CoverageAnalysis, error) {
	var cached model.CoverageAnalysis
	if s.cache.get(ctx, "coverage", &cached) {
		return &cached, nil
	}

	items, err := s.Repo.KnowledgeCoverage()
	if err != nil {
		return nil, fmt.Errorf("knowledge coverage: %w", err)
	}
	if items == nil {
		items = []model.KnowledgeCoverageItem{}
	}
	totalQuestions, err := s.Repo.CountQuestions()
	if err != nil {
		return nil, err
	}

	covered := 0
	var linkSum int64
	for _, it := range items {
		if it.QuestionCount > 0 {
			covered++
		}
		linkSum += it.QuestionCount
	}
	summary := model.CoverageSummary{
		TotalKnowledgePoints:   len(items),
		CoveredKnowledgePoints: covered,
		CoverageRate:           util.Percent(int64(covered), int64(len(items)), 2),
		TotalQuestions:         totalQuestions,
	}
	if len(items) > 0 {
		summary.AverageQuestionsPerKP = util.Round(float64(linkSum)/float64(len(items)), 2)
	}

	result := &model.CoverageAnalysis{CoverageData: items, Summary: summary}
	s.cache.set(ctx, "coverage", result)
	return result, nil
}

func (s *AnalyticsService) DifficultyDistribution(ctx context.Context) (*model.DifficultyDistribution, error) {
	var cached model.DifficultyDistribution
	if s.cache.get(ctx, "difficulty", &cached) {
		return &cached, nil
	}

	rows, err := s.Repo.DifficultyCounts()
	if err != nil {
		return nil, fmt.Errorf("difficulty distribution: %w", err)
	}
	var total int64
	for _, r := range rows {
		total += r.Count
	}
	buckets := make([]model.DifficultyBucket, 0, len(rows))
	for _, r := range rows {
		key := r.Key
		if key == "" {
			key = string(model.DifficultyUnknown)
		}
		buckets = append(buckets, model.DifficultyBucket{
			Difficulty: key,
			Count:      r.Count,
			Percentage: util.Percent(r.Count, total, 2),
		})
	}

	result := &model.DifficultyDistribution{DifficultyDistribution: buckets, TotalQuestions: total}
	s.cache.set(ctx, "difficulty", result)
	return result, nil
}

func (s *AnalyticsService) TypeDistribution(ctx context.Context) (*model.TypeDistribution, error) {
	var cached model.TypeDistribution
	if s.cache.get(ctx, "type", &cached) {
		return &cached, nil
	}

	rows, err := s.Repo.TypeCounts()
	if err != nil {
		return nil, fmt.Errorf("type distribution: %w", err)
	}
	var total int64
	for _, r := range rows {
		total += r.Count
	}
	buckets := make([]model.TypeBucket, 0, len(rows))
	for _, r := range rows {
		buckets = append(buckets, model.TypeBucket{
			QuestionType: r.Key,
			Count:        r.Count,
			Percentage:   util.Percent(r.Count, total, 2),
		})
	}

	result := &model.TypeDistribution{TypeDistribution: buckets, TotalQuestions: total}
	s.cache.set(ctx, "type", result)
	return result, nil
}

// DashboardStats annotation_coverage 为已标注题目占全部题目的百分比，保留 1 位小数
func (s *AnalyticsService) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var cached model.DashboardStats
	if s.cache.get(ctx, "dashboard", &cached) {
		return &cached, nil
	}

	kps, err := s.KPRepo.Count()
	if err != nil {
		return nil, err
	}
	total, err := s.Repo.CountQuestions()
	if err != nil {
		return nil, err
	}
	annotated, err := s.Repo.CountAnnotatedQuestions()
	if err != nil {
		return nil, err
	}

	result := &model.DashboardStats{
		TotalKnowledgePoints: kps,
		TotalQuestions:       total,
		AnnotatedQuestions:   annotated,
		AnnotationCoverage:   util.Percent(annotated, total, 1),
	}
	s.cache.set(ctx, "dashboard", result)
	return result, nil
}

// AIAgentAccuracy 对已标注题目做规则核验；准确率基于全部匹配题目，明细分页返回
func (s *AnalyticsService) AIAgentAccuracy(ctx context.Context, filter model.QuestionFilter, page, pageSize int) (*model.AIAgentAccuracy, error) {
	if pageSize <= 0 {
		pageSize = AccuracyPageSize
	}
	key := fmt.Sprintf("accuracy:%s:%s:%d:%d", filter.Difficulty, filter.QuestionType, page, pageSize)
	var cached model.AIAgentAccuracy
	if s.cache.get(ctx, key, &cached) {
		return &cached, nil
	}

	accuracyFilter := model.QuestionFilter{Difficulty: filter.Difficulty, QuestionType: filter.QuestionType}
	questions, err := s.Repo.AnnotatedQuestions(accuracyFilter)
	if err != nil {
		return nil, fmt.Errorf("annotated questions: %w", err)
	}
	ids := make([]string, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
	}
	labels, err := s.QuestionRepo.KnowledgeNames(ids)
	if err != nil {
		return nil, err
	}

	details := make([]model.AccuracyDetail, 0, len(questions))
	correct := 0
	for _, q := range questions {
		annotated := labels[q.ID]
		if annotated == nil {
			annotated = []string{}
		}
		expected := accuracy.ExpectedKnowledgePoints(q.Content)
		matches := accuracy.MatchExpected(expected, annotated)
		ok := len(matches) > 0
		if ok {
			correct++
		}
		details = append(details, model.AccuracyDetail{
			QuestionID:   q.ID,
			Content:      util.Truncate(q.Content, 50),
			AnnotatedKPs: annotated,
			ExpectedKPs:  expected,
			Matches:      matches,
			IsAccurate:   ok,
		})
	}

	totalAnnotated := len(questions)
	p := model.NewPagination(page, pageSize, int64(totalAnnotated))
	start := p.Offset()
	if start > len(details) {
		start = len(details)
	}
	end := start + p.PageSize
	if end > len(details) {
		end = len(details)
	}

	// 覆盖率与已标注数使用同一过滤条件
	matching, err := s.Repo.CountMatching(accuracyFilter)
	if err != nil {
		return nil, err
	}
	unannotated := matching - int64(totalAnnotated)
	if unannotated < 0 {
		unannotated = 0
	}

	result := &model.AIAgentAccuracy{
		AccuracyAnalysis: model.AccuracyAnalysis{
			AccuracyRate:       util.Percent(int64(correct), int64(totalAnnotated), 2),
			CorrectAnnotations: correct,
			TotalAnnotations:   totalAnnotated,
			Details:            details[start:end],
		},
		TotalAnnotated:   totalAnnotated,
		UnannotatedCount: unannotated,
		CoverageRate:     util.Percent(int64(totalAnnotated), int64(totalAnnotated)+unannotated, 2),
		Pagination:       p,
	}
	s.cache.set(ctx, key, result)
	return result, nil
}

// Warm 预热常用统计，启动时调用
func (s *AnalyticsService) Warm(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _ = s.Coverage(ctx)
	_, _ = s.DashboardStats(ctx)
}

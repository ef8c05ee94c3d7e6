package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"k12_kg_backend/internal/config"
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/repository"
	"k12_kg_backend/internal/util"
	"k12_kg_backend/pkg/logger"
	"k12_kg_backend/pkg/monitoring"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxSuggestions      = 10
	keywordScoreWeight  = 0.7
	typeScoreWeight     = 0.3
	maxDensityBoost     = 0.2
	densityBoostFactor  = 0.3
	difficultyBoost     = 0.1
	penaltyPerExtraLink = 0.1
)

// 题型与知识点名称的对应，用于推荐打分
var suggestionTypeMatches = map[string][]string{
	model.TypeMultipleChoice:       {"现在完成时", "一般现在时", "一般过去时", "被动语态", "定语从句", "宾语从句"},
	model.TypeFillBlank:            {"现在完成时", "一般现在时", "一般过去时", "被动语态", "比较级", "最高级"},
	model.TypeReadingComprehension: {"阅读技巧", "词汇理解"},
	model.TypeTranslation:          {"句型", "语法结构"},
	model.TypeWriting:              {"写作技巧", "句型"},
	model.TypeListening:            {"听力技巧", "语音", "语调"},
}

type typeBoost struct {
	fragment string
	boost    float64
}

// 自动标注决策中的题型加权，按顺序取第一个命中项
var decisionTypeBoosts = map[string][]typeBoost{
	model.TypeMultipleChoice:       {{"语法", 0.2}, {"时态", 0.2}, {"词汇", 0.1}, {"语态", 0.2}},
	model.TypeFillBlank:            {{"时态", 0.3}, {"介词", 0.3}, {"词形变化", 0.2}, {"语法", 0.1}},
	model.TypeReadingComprehension: {{"阅读技巧", 0.3}, {"词汇理解", 0.2}, {"语法理解", 0.1}},
	model.TypeTranslation:          {{"语法", 0.3}, {"词汇", 0.2}, {"句型", 0.2}},
}

var difficultyFragments = map[model.Difficulty][]string{
	model.DifficultyEasy:   {"基础", "简单", "入门"},
	model.DifficultyMedium: {"中级", "一般", "标准"},
	model.DifficultyHard:   {"高级", "复杂", "困难"},
}

// KnowledgeSuggester 基于大模型的知识点推荐
type KnowledgeSuggester interface {
	Enabled() bool
	SuggestKnowledgePoints(ctx context.Context, content, questionType string, candidates []string) ([]AISuggestion, error)
}

type AnnotationService struct {
	QuestionRepo *repository.QuestionRepository
	KPRepo       *repository.KnowledgePointRepository
	LogRepo      *repository.AnnotationLogRepository
	AI           KnowledgeSuggester
	Analytics    *AnalyticsService
	Graph        *GraphSyncService

	mu  sync.RWMutex
	cfg config.AnnotationConfig
}

func NewAnnotationService(
	questionRepo *repository.QuestionRepository,
	kpRepo *repository.KnowledgePointRepository,
	logRepo *repository.AnnotationLogRepository,
	ai KnowledgeSuggester,
	analytics *AnalyticsService,
	graph *GraphSyncService,
	cfg config.AnnotationConfig,
) *AnnotationService {
	if cfg.Validate() != nil {
		cfg = config.DefaultAnnotationConfig()
	}
	return &AnnotationService{
		QuestionRepo: questionRepo,
		KPRepo:       kpRepo,
		LogRepo:      logRepo,
		AI:           ai,
		Analytics:    analytics,
		Graph:        graph,
		cfg:          cfg,
	}
}

func (s *AnnotationService) Config() config.AnnotationConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// UpdateConfig 热更新阈值，非法配置被拒绝并保留旧值
func (s *AnnotationService) UpdateConfig(cfg config.AnnotationConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	logger.Log.Info("Annotation thresholds updated",
		zap.Float64("confidence_threshold", cfg.ConfidenceThreshold),
		zap.Float64("auto_apply_threshold", cfg.AutoApplyThreshold),
		zap.Int("max_auto_annotations", cfg.MaxAutoAnnotations),
	)
	return nil
}

// keywordScore 长关键词（超过 5 个字符）计 2 分，否则 1 分，按满分归一化
func keywordScore(content string, keywords []string) (float64, []string) {
	if len(keywords) == 0 {
		return 0, nil
	}
	lower := strings.ToLower(content)
	var points int
	var matched []string
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" || !strings.Contains(lower, k) {
			continue
		}
		matched = append(matched, kw)
		if len([]rune(k)) > 5 {
			points += 2
		} else {
			points++
		}
	}
	score := float64(points) / float64(2*len(keywords))
	if score > 1 {
		score = 1
	}
	return score, matched
}

func typeMatchScore(questionType, kpName string) float64 {
	for _, fragment := range suggestionTypeMatches[questionType] {
		if strings.Contains(kpName, fragment) {
			return 1
		}
	}
	return 0
}

func suggestionReason(matched []string, typeScore float64) string {
	parts := []string{}
	if len(matched) > 0 {
		parts = append(parts, "匹配关键词: "+strings.Join(matched, ", "))
	}
	if typeScore > 0 {
		parts = append(parts, "题型相关")
	}
	return strings.Join(parts, "；")
}

func rankSuggestions(suggestions []model.Suggestion) []model.Suggestion {
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Confidence != suggestions[j].Confidence {
			return suggestions[i].Confidence > suggestions[j].Confidence
		}
		return suggestions[i].KnowledgePointName < suggestions[j].KnowledgePointName
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// ScoreKnowledgePoints 关键词推荐的纯计算部分
func ScoreKnowledgePoints(content, questionType string, kps []model.KnowledgePoint) []model.Suggestion {
	suggestions := []model.Suggestion{}
	for _, kp := range kps {
		kw, matched := keywordScore(content, kp.Keywords)
		if kw == 0 {
			continue
		}
		ts := typeMatchScore(questionType, kp.Name)
		suggestions = append(suggestions, model.Suggestion{
			KnowledgePointID:   kp.ID,
			KnowledgePointName: kp.Name,
			Confidence:         util.Round(keywordScoreWeight*kw+typeScoreWeight*ts, 3),
			MatchedKeywords:    matched,
			Reason:             suggestionReason(matched, ts),
			Source:             "keyword",
		})
	}
	return rankSuggestions(suggestions)
}

func (s *AnnotationService) Suggest(ctx context.Context, content, questionType string) ([]model.Suggestion, error) {
	if strings.TrimSpace(content) == "" {
		return nil, util.ErrEmptyContent
	}
	kps, err := s.KPRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("load knowledge points: %w", err)
	}
	suggestions := ScoreKnowledgePoints(content, questionType, kps)
	for _, sg := range suggestions {
		monitoring.SuggestionConfidence.Observe(sg.Confidence)
	}
	return suggestions, nil
}

// AISuggest 关键词推荐与模型推荐合并，同一知识点取较高置信度
func (s *AnnotationService) AISuggest(ctx context.Context, content, questionType string) ([]model.Suggestion, error) {
	if s.AI == nil || !s.AI.Enabled() {
		return nil, util.ErrAIDisabled
	}
	if strings.TrimSpace(content) == "" {
		return nil, util.ErrEmptyContent
	}
	kps, err := s.KPRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("load knowledge points: %w", err)
	}
	keyword := ScoreKnowledgePoints(content, questionType, kps)

	names := make([]string, len(kps))
	for i, kp := range kps {
		names[i] = kp.Name
	}
	ai, err := s.AI.SuggestKnowledgePoints(ctx, content, questionType, names)
	if err != nil {
		return nil, err
	}
	return MergeSuggestions(keyword, ai, kps), nil
}

// MergeSuggestions 按知识点合并两路推荐，未知名称的模型结果被丢弃
func MergeSuggestions(keyword []model.Suggestion, ai []AISuggestion, kps []model.KnowledgePoint) []model.Suggestion {
	byName := make(map[string]model.KnowledgePoint, len(kps))
	for _, kp := range kps {
		byName[kp.Name] = kp
	}

	merged := make(map[string]model.Suggestion, len(keyword)+len(ai))
	order := []string{}
	for _, sg := range keyword {
		merged[sg.KnowledgePointID] = sg
		order = append(order, sg.KnowledgePointID)
	}
	for _, a := range ai {
		kp, ok := byName[a.KnowledgePoint]
		if !ok {
			continue
		}
		conf := util.Round(a.Confidence, 3)
		existing, seen := merged[kp.ID]
		if seen && existing.Confidence >= conf {
			continue
		}
		sg := model.Suggestion{
			KnowledgePointID:   kp.ID,
			KnowledgePointName: kp.Name,
			Confidence:         conf,
			MatchedKeywords:    existing.MatchedKeywords,
			Reason:             a.Reason,
			Source:             "ai",
		}
		if !seen {
			order = append(order, kp.ID)
		}
		merged[kp.ID] = sg
	}

	out := make([]model.Suggestion, 0, len(order))
	for _, id := range order {
		out = append(out, merged[id])
	}
	return rankSuggestions(out)
}

func decisionTypeBoost(questionType, kpName string) float64 {
	for _, tb := range decisionTypeBoosts[questionType] {
		if strings.Contains(kpName, tb.fragment) {
			return tb.boost
		}
	}
	return 0
}

func keywordDensityBoost(content string, matched []string) float64 {
	if len(matched) == 0 {
		return 0
	}
	lower := strings.ToLower(content)
	occurrences := 0
	for _, kw := range matched {
		if k := strings.ToLower(kw); k != "" {
			occurrences += strings.Count(lower, k)
		}
	}
	words := len(strings.Fields(content))
	if words < 1 {
		words = 1
	}
	boost := float64(occurrences) / float64(words) * densityBoostFactor
	if boost > maxDensityBoost {
		return maxDensityBoost
	}
	return boost
}

func difficultyMatchBoost(d model.Difficulty, kpName string) float64 {
	for _, fragment := range difficultyFragments[d] {
		if strings.Contains(kpName, fragment) {
			return difficultyBoost
		}
	}
	return 0
}

func overAnnotationPenalty(existing int) float64 {
	if existing >= 3 {
		return penaltyPerExtraLink * float64(existing-2)
	}
	return 0
}

// DecisionScore 综合置信度与各项加权，结果限定在 [0,1]
func DecisionScore(q *model.Question, sg model.Suggestion, existingLinks int, historyBoost float64) float64 {
	score := sg.Confidence
	score += decisionTypeBoost(q.QuestionType, sg.KnowledgePointName)
	score += keywordDensityBoost(q.Content, sg.MatchedKeywords)
	score += historyBoost
	score += difficultyMatchBoost(q.Difficulty, sg.KnowledgePointName)
	score -= overAnnotationPenalty(existingLinks)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Decide 过滤低于阈值的推荐，按决策分排序后截取前 MaxAutoAnnotations 个
func Decide(q *model.Question, suggestions []model.Suggestion, existingLinks int, cfg config.AnnotationConfig) []model.AutoAnnotation {
	decisions := []model.AutoAnnotation{}
	for _, sg := range suggestions {
		score := DecisionScore(q, sg, existingLinks, cfg.HistoryBoost)
		if score < cfg.ConfidenceThreshold {
			continue
		}
		decisions = append(decisions, model.AutoAnnotation{
			KnowledgePointID:   sg.KnowledgePointID,
			KnowledgePointName: sg.KnowledgePointName,
			Confidence:         sg.Confidence,
			DecisionScore:      util.Round(score, 3),
			Weight:             util.Round(score, 3),
			Reason:             sg.Reason,
			AutoApplied:        score >= cfg.AutoApplyThreshold,
		})
	}
	sort.SliceStable(decisions, func(i, j int) bool {
		return decisions[i].DecisionScore > decisions[j].DecisionScore
	})
	if len(decisions) > cfg.MaxAutoAnnotations {
		decisions = decisions[:cfg.MaxAutoAnnotations]
	}
	return decisions
}

func (s *AnnotationService) loadQuestion(id string) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

// AutoAnnotate 为单个题目生成推荐、做出决策，并写入高分标注
func (s *AnnotationService) AutoAnnotate(ctx context.Context, questionID string) (*model.AutoAnnotateResult, error) {
	q, err := s.loadQuestion(questionID)
	if err != nil {
		return nil, err
	}
	cfg := s.Config()

	suggestions, err := s.Suggest(ctx, q.Content, q.QuestionType)
	if err != nil {
		return nil, err
	}
	if s.AI != nil && s.AI.Enabled() {
		if merged, err := s.AISuggest(ctx, q.Content, q.QuestionType); err == nil {
			suggestions = merged
		} else {
			logger.Log.Warn("AI suggestion failed, falling back to keywords", zap.String("question_id", q.ID), zap.Error(err))
		}
	}

	existing, err := s.QuestionRepo.CountLinks(q.ID)
	if err != nil {
		return nil, err
	}

	decisions := Decide(q, suggestions, int(existing), cfg)
	applied := []model.AutoAnnotation{}
	for _, d := range decisions {
		if !d.AutoApplied {
			monitoring.AnnotationDecisions.WithLabelValues("pending").Inc()
			continue
		}
		err := s.QuestionRepo.Link(&model.QuestionKnowledge{
			QuestionID:       q.ID,
			KnowledgePointID: d.KnowledgePointID,
			Weight:           d.Weight,
			Origin:           model.OriginAuto,
		})
		if err != nil {
			monitoring.AnnotationRuns.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("apply annotation %s: %w", d.KnowledgePointName, err)
		}
		monitoring.AnnotationDecisions.WithLabelValues("applied").Inc()
		applied = append(applied, d)
	}

	status := "no_suggestions"
	switch {
	case len(applied) > 0:
		status = "applied"
	case len(decisions) > 0:
		status = "pending_review"
	}
	monitoring.AnnotationRuns.WithLabelValues(status).Inc()

	result := &model.AutoAnnotateResult{
		QuestionID:         q.ID,
		Suggestions:        suggestions,
		AutoAnnotations:    decisions,
		AppliedAnnotations: applied,
		Status:             status,
	}
	s.writeLog(q, result)

	if len(applied) > 0 {
		notifyWrite(ctx, s.Analytics, s.Graph, q.ID)
	}
	return result, nil
}

func (s *AnnotationService) writeLog(q *model.Question, result *model.AutoAnnotateResult) {
	if s.LogRepo == nil {
		return
	}
	detail, _ := json.Marshal(result.AutoAnnotations)
	entry := &model.AnnotationLog{
		QuestionID:      q.ID,
		QuestionType:    q.QuestionType,
		SuggestionCount: len(result.Suggestions),
		DecisionCount:   len(result.AutoAnnotations),
		AppliedCount:    len(result.AppliedAnnotations),
		Detail:          string(detail),
	}
	if err := s.LogRepo.Create(entry); err != nil {
		logger.Log.Warn("Write annotation log failed", zap.String("question_id", q.ID), zap.Error(err))
	}
}

// BatchAutoAnnotate 依次处理未标注题目，单题失败不影响其余题目
func (s *AnnotationService) BatchAutoAnnotate(ctx context.Context, limit int) (*model.BatchAnnotateResult, error) {
	questions, err := s.QuestionRepo.FindUnannotated(limit)
	if err != nil {
		return nil, fmt.Errorf("load unannotated questions: %w", err)
	}

	result := &model.BatchAnnotateResult{}
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		res, err := s.AutoAnnotate(ctx, q.ID)
		result.Processed++
		if err != nil {
			result.Failed++
			logger.Log.Warn("Auto annotation failed", zap.String("question_id", q.ID), zap.Error(err))
			continue
		}
		if len(res.AppliedAnnotations) > 0 {
			result.Applied++
		}
	}

	logger.Log.Info("Batch auto annotation finished",
		zap.Int("processed", result.Processed),
		zap.Int("applied", result.Applied),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// Submit 以人工标注整体替换题目原有标注
func (s *AnnotationService) Submit(ctx context.Context, req model.SubmitAnnotationRequest) ([]model.KnowledgeWeight, error) {
	if _, err := s.loadQuestion(req.QuestionID); err != nil {
		return nil, err
	}

	links := make([]model.QuestionKnowledge, 0, len(req.Annotations))
	seen := map[string]bool{}
	for _, a := range req.Annotations {
		if seen[a.KnowledgePointID] {
			continue
		}
		seen[a.KnowledgePointID] = true
		if _, err := s.KPRepo.FindByID(a.KnowledgePointID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%s: %w", a.KnowledgePointID, util.ErrKnowledgePointNotFound)
			}
			return nil, err
		}
		links = append(links, model.QuestionKnowledge{
			QuestionID:       req.QuestionID,
			KnowledgePointID: a.KnowledgePointID,
			Weight:           clampWeight(a.Weight),
			Origin:           model.OriginManual,
		})
	}

	if err := s.QuestionRepo.ReplaceLinks(req.QuestionID, links); err != nil {
		return nil, fmt.Errorf("replace annotations: %w", err)
	}
	notifyWrite(ctx, s.Analytics, s.Graph, req.QuestionID)

	saved, err := s.QuestionRepo.KnowledgeOf(req.QuestionID)
	if err != nil {
		return nil, err
	}
	out := make([]model.KnowledgeWeight, 0, len(saved))
	for _, l := range saved {
		if l.KnowledgePoint != nil {
			out = append(out, model.KnowledgeWeight{KnowledgePoint: *l.KnowledgePoint, Weight: l.Weight, Origin: l.Origin})
		}
	}
	return out, nil
}

func (s *AnnotationService) Logs(questionID string, limit int) ([]model.AnnotationLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.LogRepo.ListRecent(questionID, limit)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/repository"
	"k12_kg_backend/internal/util"
	"k12_kg_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuestionAnnotator 导入题目后触发自动标注
type QuestionAnnotator interface {
	AutoAnnotate(ctx context.Context, questionID string) (*model.AutoAnnotateResult, error)
}

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	KPRepo       *repository.KnowledgePointRepository
	Analytics    *AnalyticsService
	Graph        *GraphSyncService
	annotator    QuestionAnnotator
}

func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	kpRepo *repository.KnowledgePointRepository,
	analytics *AnalyticsService,
	graph *GraphSyncService,
) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		KPRepo:       kpRepo,
		Analytics:    analytics,
		Graph:        graph,
	}
}

func (s *QuestionService) SetAnnotator(a QuestionAnnotator) {
	s.annotator = a
}

// ListQuestions 按筛选条件分页查询，页码由总数重新计算后回填
func (s *QuestionService) ListQuestions(filter model.QuestionFilter, page, pageSize int) (*model.QuestionPage, error) {
	total, err := s.QuestionRepo.Count(filter)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	p := model.NewPagination(page, pageSize, total)

	questions := []model.Question{}
	if total > 0 {
		questions, err = s.QuestionRepo.List(filter, p.Offset(), p.PageSize)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		if err := s.attachKnowledge(questions); err != nil {
			return nil, err
		}
	}

	return &model.QuestionPage{Questions: questions, Pagination: p}, nil
}

func (s *QuestionService) attachKnowledge(questions []model.Question) error {
	ids := make([]string, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
	}
	labels, err := s.QuestionRepo.KnowledgeNames(ids)
	if err != nil {
		return fmt.Errorf("load knowledge labels: %w", err)
	}
	for i := range questions {
		questions[i].KnowledgePoints = labels[questions[i].ID]
		if questions[i].KnowledgePoints == nil {
			questions[i].KnowledgePoints = []string{}
		}
		if questions[i].Options == nil {
			questions[i].Options = []string{}
		}
	}
	return nil
}

func (s *QuestionService) Get(id string) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	qs := []model.Question{*q}
	if err := s.attachKnowledge(qs); err != nil {
		return nil, err
	}
	return &qs[0], nil
}

func (s *QuestionService) Create(ctx context.Context, in model.QuestionImport) (*model.Question, error) {
	q, err := newQuestion(in)
	if err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Create(q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	if len(in.KnowledgePoints) > 0 {
		if _, _, err := s.linkByNames(q.ID, in.KnowledgePoints); err != nil {
			return nil, err
		}
	}
	s.afterWrite(ctx, q.ID)
	return s.Get(q.ID)
}

func newQuestion(in model.QuestionImport) (*model.Question, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, util.ErrEmptyContent
	}
	options := in.Options
	if options == nil {
		options = []string{}
	}
	return &model.Question{
		Content:      content,
		QuestionType: strings.TrimSpace(in.QuestionType),
		Options:      options,
		Answer:       in.Answer,
		Analysis:     in.Analysis,
		Source:       strings.TrimSpace(in.Source),
		Difficulty:   model.NormalizeDifficulty(in.Difficulty),
		GradeLevel:   strings.TrimSpace(in.GradeLevel),
	}, nil
}

// linkByNames 按知识点名称建立人工标注，返回成功数量与未知名称
func (s *QuestionService) linkByNames(questionID string, names []string) (int, []string, error) {
	kps, err := s.KPRepo.FindByNames(names)
	if err != nil {
		return 0, nil, fmt.Errorf("resolve knowledge points: %w", err)
	}
	byName := make(map[string]model.KnowledgePoint, len(kps))
	for _, kp := range kps {
		byName[kp.Name] = kp
	}

	linked := 0
	unknown := []string{}
	for _, name := range names {
		kp, ok := byName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		err := s.QuestionRepo.Link(&model.QuestionKnowledge{
			QuestionID:       questionID,
			KnowledgePointID: kp.ID,
			Weight:           1.0,
			Origin:           model.OriginManual,
		})
		if err != nil {
			return linked, unknown, fmt.Errorf("link %s: %w", name, err)
		}
		linked++
	}
	return linked, unknown, nil
}

// Import 批量导入题目；未带知识点且 autoAnnotate 为真时触发自动标注
func (s *QuestionService) Import(ctx context.Context, items []model.QuestionImport, autoAnnotate bool) (*model.ImportResult, error) {
	result := &model.ImportResult{UnknownLabels: []string{}}
	seenUnknown := map[string]bool{}
	var written []string

	for i, item := range items {
		q, err := newQuestion(item)
		if err != nil {
			return result, fmt.Errorf("item %d: %w", i, err)
		}
		if err := s.QuestionRepo.Create(q); err != nil {
			return result, fmt.Errorf("item %d: create question: %w", i, err)
		}
		result.Imported++
		written = append(written, q.ID)

		if len(item.KnowledgePoints) > 0 {
			linked, unknown, err := s.linkByNames(q.ID, item.KnowledgePoints)
			if err != nil {
				return result, fmt.Errorf("item %d: %w", i, err)
			}
			result.Linked += linked
			for _, u := range unknown {
				if !seenUnknown[u] {
					seenUnknown[u] = true
					result.UnknownLabels = append(result.UnknownLabels, u)
				}
			}
			continue
		}

		if autoAnnotate && s.annotator != nil {
			res, err := s.annotator.AutoAnnotate(ctx, q.ID)
			if err != nil {
				logger.Log.Warn("Auto annotation after import failed", zap.String("question_id", q.ID), zap.Error(err))
				continue
			}
			if len(res.AppliedAnnotations) > 0 {
				result.AutoAnnotated++
			}
		}
	}

	s.afterWrite(ctx, written...)
	logger.Log.Info("Questions imported",
		zap.Int("imported", result.Imported),
		zap.Int("linked", result.Linked),
		zap.Int("auto_annotated", result.AutoAnnotated),
	)
	return result, nil
}

// LinkKnowledge 人工标注单个知识点，weight 缺省为 1，超出 (0,1] 时截断
func (s *QuestionService) LinkKnowledge(ctx context.Context, questionID, kpID string, weight float64) error {
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if _, err := s.KPRepo.FindByID(kpID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrKnowledgePointNotFound
		}
		return err
	}

	err := s.QuestionRepo.Link(&model.QuestionKnowledge{
		QuestionID:       questionID,
		KnowledgePointID: kpID,
		Weight:           clampWeight(weight),
		Origin:           model.OriginManual,
	})
	if err != nil {
		return fmt.Errorf("link knowledge point: %w", err)
	}
	s.afterWrite(ctx, questionID)
	return nil
}

func clampWeight(w float64) float64 {
	if w <= 0 {
		return 1.0
	}
	if w > 1 {
		return 1.0
	}
	return util.Round(w, 3)
}

// KnowledgeOf 题目关联的知识点及权重，按权重降序
func (s *QuestionService) KnowledgeOf(questionID string) ([]model.KnowledgeWeight, error) {
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	links, err := s.QuestionRepo.KnowledgeOf(questionID)
	if err != nil {
		return nil, err
	}
	out := make([]model.KnowledgeWeight, 0, len(links))
	for _, l := range links {
		if l.KnowledgePoint == nil {
			continue
		}
		out = append(out, model.KnowledgeWeight{
			KnowledgePoint: *l.KnowledgePoint,
			Weight:         l.Weight,
			Origin:         l.Origin,
		})
	}
	return out, nil
}

func (s *QuestionService) QuestionsByKnowledge(name string) ([]model.Question, error) {
	qs, err := s.QuestionRepo.FindByKnowledgeName(name)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return []model.Question{}, nil
	}
	if err := s.attachKnowledge(qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *QuestionService) afterWrite(ctx context.Context, questionIDs ...string) {
	notifyWrite(ctx, s.Analytics, s.Graph, questionIDs...)
}

// notifyWrite 写操作后清理统计缓存并同步图谱，失败只记录日志
func notifyWrite(ctx context.Context, analytics *AnalyticsService, graph *GraphSyncService, questionIDs ...string) {
	if analytics != nil {
		analytics.Invalidate(ctx)
	}
	if !graph.Enabled() {
		return
	}
	for _, id := range questionIDs {
		if err := graph.SyncQuestion(ctx, id); err != nil {
			logger.Log.Warn("Graph sync failed", zap.String("question_id", id), zap.Error(err))
		}
	}
}

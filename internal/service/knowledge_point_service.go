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

type KnowledgePointService struct {
	Repo      *repository.KnowledgePointRepository
	Analytics *AnalyticsService
	Graph     *GraphSyncService
}

func NewKnowledgePointService(repo *repository.KnowledgePointRepository, analytics *AnalyticsService, graph *GraphSyncService) *KnowledgePointService {
	return &KnowledgePointService{Repo: repo, Analytics: analytics, Graph: graph}
}

func (s *KnowledgePointService) Create(ctx context.Context, in model.KnowledgePointInput) (*model.KnowledgePoint, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.ErrEmptyName
	}
	if _, err := s.Repo.FindByName(name); err == nil {
		return nil, fmt.Errorf("%s: %w", name, util.ErrDuplicateKnowledgePoint)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if in.ParentID != nil && *in.ParentID != "" {
		if _, err := s.find(*in.ParentID); err != nil {
			return nil, err
		}
	} else {
		in.ParentID = nil
	}

	keywords := make([]string, 0, len(in.Keywords))
	for _, k := range in.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	kp := &model.KnowledgePoint{
		Name:        name,
		Description: in.Description,
		Level:       in.Level,
		Difficulty:  model.NormalizeDifficulty(in.Difficulty),
		Keywords:    keywords,
		ParentID:    in.ParentID,
	}
	if err := s.Repo.Create(kp); err != nil {
		return nil, fmt.Errorf("create knowledge point: %w", err)
	}

	s.afterWrite(ctx)
	return kp, nil
}

func (s *KnowledgePointService) find(id string) (*model.KnowledgePoint, error) {
	kp, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrKnowledgePointNotFound
	}
	return kp, err
}

func (s *KnowledgePointService) Get(id string) (*model.KnowledgePoint, error) {
	return s.find(id)
}

func (s *KnowledgePointService) Search(keyword string) ([]model.KnowledgePoint, error) {
	return s.Repo.Search(strings.TrimSpace(keyword))
}

// LinkChild 设置父子关系，拒绝自引用与成环
func (s *KnowledgePointService) LinkChild(ctx context.Context, parentID, childID string) error {
	if parentID == childID {
		return fmt.Errorf("knowledge point cannot be its own parent: %w", util.ErrInvalidHierarchy)
	}
	if _, err := s.find(parentID); err != nil {
		return err
	}
	if _, err := s.find(childID); err != nil {
		return err
	}

	all, err := s.Repo.FindAll()
	if err != nil {
		return err
	}
	parents := make(map[string]string, len(all))
	for _, kp := range all {
		if kp.ParentID != nil {
			parents[kp.ID] = *kp.ParentID
		}
	}
	// 从新父节点向上回溯，遇到子节点即成环
	for cur, steps := parentID, 0; cur != "" && steps <= len(all); steps++ {
		if cur == childID {
			return fmt.Errorf("linking would create a cycle: %w", util.ErrInvalidHierarchy)
		}
		cur = parents[cur]
	}

	if err := s.Repo.SetParent(childID, parentID); err != nil {
		return fmt.Errorf("set parent: %w", err)
	}
	s.afterWrite(ctx)
	return nil
}

// Hierarchy 返回以根知识点为起点的层级树，子节点按名称排序
func (s *KnowledgePointService) Hierarchy() ([]*model.KnowledgeNode, error) {
	all, err := s.Repo.FindAll()
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*model.KnowledgeNode, len(all))
	for _, kp := range all {
		nodes[kp.ID] = &model.KnowledgeNode{
			ID:       kp.ID,
			Name:     kp.Name,
			Level:    kp.Level,
			Children: []*model.KnowledgeNode{},
		}
	}

	roots := []*model.KnowledgeNode{}
	for _, kp := range all {
		node := nodes[kp.ID]
		if kp.ParentID != nil {
			if parent, ok := nodes[*kp.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots, nil
}

func (s *KnowledgePointService) AddPrerequisite(ctx context.Context, kpID string, in model.PrerequisiteInput) error {
	if kpID == in.PrerequisiteID {
		return fmt.Errorf("knowledge point cannot require itself: %w", util.ErrInvalidHierarchy)
	}
	if _, err := s.find(kpID); err != nil {
		return err
	}
	if _, err := s.find(in.PrerequisiteID); err != nil {
		return err
	}

	err := s.Repo.AddPrerequisite(&model.KnowledgePrerequisite{
		KnowledgePointID: kpID,
		PrerequisiteID:   in.PrerequisiteID,
		Strength:         clampWeight(in.Strength),
	})
	if err != nil {
		return fmt.Errorf("add prerequisite: %w", err)
	}
	s.afterWrite(ctx)
	return nil
}

func (s *KnowledgePointService) Prerequisites(kpID string) ([]model.KnowledgePrerequisite, error) {
	if _, err := s.find(kpID); err != nil {
		return nil, err
	}
	return s.Repo.Prerequisites(kpID)
}

func (s *KnowledgePointService) afterWrite(ctx context.Context) {
	if s.Analytics != nil {
		s.Analytics.Invalidate(ctx)
	}
	if !s.Graph.Enabled() {
		return
	}
	if err := s.Graph.SyncKnowledge(ctx); err != nil {
		logger.Log.Warn("Graph sync of knowledge points failed", zap.Error(err))
	}
}

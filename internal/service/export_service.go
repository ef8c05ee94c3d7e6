package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/repository"
	"k12_kg_backend/internal/util"
	"k12_kg_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

type ExportService struct {
	QuestionRepo *repository.QuestionRepository
	KPRepo       *repository.KnowledgePointRepository
	Storage      *StorageService
}

func NewExportService(questionRepo *repository.QuestionRepository, kpRepo *repository.KnowledgePointRepository, storage *StorageService) *ExportService {
	return &ExportService{QuestionRepo: questionRepo, KPRepo: kpRepo, Storage: storage}
}

// Snapshot 读取完整知识图谱
func (s *ExportService) Snapshot(now time.Time) (*model.GraphSnapshot, error) {
	kps, err := s.KPRepo.FindAll()
	if err != nil {
		return nil, err
	}
	prereqs, err := s.KPRepo.AllPrerequisites()
	if err != nil {
		return nil, err
	}
	questions, err := s.QuestionRepo.FindAll()
	if err != nil {
		return nil, err
	}
	links, err := s.QuestionRepo.AllLinks()
	if err != nil {
		return nil, err
	}

	labels := make(map[string][]string, len(questions))
	names := make(map[string]string, len(kps))
	for _, kp := range kps {
		names[kp.ID] = kp.Name
	}
	for _, l := range links {
		labels[l.QuestionID] = append(labels[l.QuestionID], names[l.KnowledgePointID])
	}
	for i := range questions {
		questions[i].KnowledgePoints = labels[questions[i].ID]
		if questions[i].KnowledgePoints == nil {
			questions[i].KnowledgePoints = []string{}
		}
	}

	return &model.GraphSnapshot{
		ExportedAt:      now.UTC(),
		KnowledgePoints: kps,
		Prerequisites:   prereqs,
		Questions:       questions,
		Annotations:     links,
	}, nil
}

// Export 将快照序列化为 JSON 并上传到存储
func (s *ExportService) Export(ctx context.Context) (*model.ExportResult, error) {
	now := time.Now()
	snapshot, err := s.Snapshot(now)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	filename := fmt.Sprintf("kg-export-%s.json", now.Format(util.FileStampFormat))
	url, err := s.Storage.Upload(ctx, filename, bytes.NewReader(data), int64(len(data)), util.MimeJSON)
	if err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}

	logger.Log.Info("Knowledge graph exported", zap.String("file", filename), zap.Int("bytes", len(data)))
	return &model.ExportResult{
		URL:                 url,
		Filename:            filename,
		QuestionCount:       len(snapshot.Questions),
		KnowledgePointCount: len(snapshot.KnowledgePoints),
		AnnotationCount:     len(snapshot.Annotations),
	}, nil
}

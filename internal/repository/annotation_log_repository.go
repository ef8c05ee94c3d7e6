package repository

import (
	"k12_kg_backend/internal/model"

	"gorm.io/gorm"
)

type AnnotationLogRepository struct {
	DB *gorm.DB
}

func NewAnnotationLogRepository(db *gorm.DB) *AnnotationLogRepository {
	return &AnnotationLogRepository{DB: db}
}

func (r *AnnotationLogRepository) Create(log *model.AnnotationLog) error {
	return r.DB.Create(log).Error
}

func (r *AnnotationLogRepository) ListRecent(questionID string, limit int) ([]model.AnnotationLog, error) {
	var logs []model.AnnotationLog
	query := r.DB.Order("created_at desc, id desc")
	if questionID != "" {
		query = query.Where("question_id = ?", questionID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&logs).Error
	return logs, err
}

package repository

import (
	"k12_kg_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KnowledgePointRepository struct {
	DB *gorm.DB
}

func NewKnowledgePointRepository(db *gorm.DB) *KnowledgePointRepository {
	return &KnowledgePointRepository{DB: db}
}

func (r *KnowledgePointRepository) Create(kp *model.KnowledgePoint) error {
	return r.DB.Create(kp).Error
}

func (r *KnowledgePointRepository) FindByID(id string) (*model.KnowledgePoint, error) {
	var kp model.KnowledgePoint
	err := r.DB.Where("id = ?", id).First(&kp).Error
	if err != nil {
		return nil, err
	}
	return &kp, nil
}

func (r *KnowledgePointRepository) FindByName(name string) (*model.KnowledgePoint, error) {
	var kp model.KnowledgePoint
	err := r.DB.Where("name = ?", name).First(&kp).Error
	if err != nil {
		return nil, err
	}
	return &kp, nil
}

func (r *KnowledgePointRepository) FindByNames(names []string) ([]model.KnowledgePoint, error) {
	var kps []model.KnowledgePoint
	if len(names) == 0 {
		return kps, nil
	}
	err := r.DB.Where("name IN ?", names).Find(&kps).Error
	return kps, err
}

func (r *KnowledgePointRepository) FindAll() ([]model.KnowledgePoint, error) {
	var kps []model.KnowledgePoint
	err := r.DB.Order("name asc").Find(&kps).Error
	return kps, err
}

// Search 按名称或描述模糊匹配，关键字为空时返回全部
func (r *KnowledgePointRepository) Search(keyword string) ([]model.KnowledgePoint, error) {
	if keyword == "" {
		return r.FindAll()
	}
	var kps []model.KnowledgePoint
	like := "%" + keyword + "%"
	err := r.DB.Where("name LIKE ? OR description LIKE ?", like, like).
		Order("name asc").
		Find(&kps).Error
	return kps, err
}

func (r *KnowledgePointRepository) SetParent(childID, parentID string) error {
	return r.DB.Model(&model.KnowledgePoint{}).Where("id = ?", childID).Update("parent_id", parentID).Error
}

func (r *KnowledgePointRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.KnowledgePoint{}).Count(&n).Error
	return n, err
}

func (r *KnowledgePointRepository) AddPrerequisite(p *model.KnowledgePrerequisite) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "knowledge_point_id"}, {Name: "prerequisite_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"strength"}),
	}).Omit("Prerequisite").Create(p).Error
}

func (r *KnowledgePointRepository) Prerequisites(kpID string) ([]model.KnowledgePrerequisite, error) {
	var ps []model.KnowledgePrerequisite
	err := r.DB.Preload("Prerequisite").
		Where("knowledge_point_id = ?", kpID).
		Order("strength desc").
		Find(&ps).Error
	return ps, err
}

func (r *KnowledgePointRepository) AllPrerequisites() ([]model.KnowledgePrerequisite, error) {
	var ps []model.KnowledgePrerequisite
	err := r.DB.Order("knowledge_point_id asc, prerequisite_id asc").Find(&ps).Error
	return ps, err
}

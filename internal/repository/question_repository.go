package repository

import (
	"k12_kg_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.Where("id = ?", id).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func applyQuestionFilter(query *gorm.DB, f model.QuestionFilter) *gorm.DB {
	if f.Difficulty != "" {
		query = query.Where("questions.difficulty = ?", f.Difficulty)
	}
	if f.QuestionType != "" {
		query = query.Where("questions.question_type = ?", f.QuestionType)
	}
	if f.GradeLevel != "" {
		query = query.Where("questions.grade_level = ?", f.GradeLevel)
	}
	if f.Source != "" {
		query = query.Where("questions.source = ?", f.Source)
	}
	return query
}

func (r *QuestionRepository) Count(f model.QuestionFilter) (int64, error) {
	var total int64
	err := applyQuestionFilter(r.DB.Model(&model.Question{}), f).Count(&total).Error
	return total, err
}

func (r *QuestionRepository) List(f model.QuestionFilter, offset, limit int) ([]model.Question, error) {
	var qs []model.Question
	err := applyQuestionFilter(r.DB.Model(&model.Question{}), f).
		Order("questions.created_at asc, questions.id asc").
		Offset(offset).Limit(limit).
		Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) FindAll() ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Order("created_at asc, id asc").Find(&qs).Error
	return qs, err
}

type knowledgeNameRow struct {
	QuestionID string
	Name       string
}

// KnowledgeNames 返回题目 ID -> 知识点名称列表
func (r *QuestionRepository) KnowledgeNames(questionIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(questionIDs))
	if len(questionIDs) == 0 {
		return result, nil
	}
	var rows []knowledgeNameRow
	err := r.DB.Table("question_knowledge").
		Select("question_knowledge.question_id AS question_id, knowledge_points.name AS name").
		Joins("JOIN knowledge_points ON knowledge_points.id = question_knowledge.knowledge_point_id AND knowledge_points.deleted_at IS NULL").
		Where("question_knowledge.question_id IN ?", questionIDs).
		Order("question_knowledge.weight desc, knowledge_points.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.QuestionID] = append(result[row.QuestionID], row.Name)
	}
	return result, nil
}

func (r *QuestionRepository) FindByKnowledgeName(name string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Model(&model.Question{}).
		Joins("JOIN question_knowledge ON question_knowledge.question_id = questions.id").
		Joins("JOIN knowledge_points ON knowledge_points.id = question_knowledge.knowledge_point_id").
		Where("knowledge_points.name = ?", name).
		Order("questions.created_at asc, questions.id asc").
		Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) FindUnannotated(limit int) ([]model.Question, error) {
	var qs []model.Question
	query := r.DB.Model(&model.Question{}).
		Where("NOT EXISTS (SELECT 1 FROM question_knowledge WHERE question_knowledge.question_id = questions.id)").
		Order("questions.created_at asc, questions.id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&qs).Error
	return qs, err
}

// Link 建立或更新题目与知识点的考查关系
func (r *QuestionRepository) Link(link *model.QuestionKnowledge) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}, {Name: "knowledge_point_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight", "origin"}),
	}).Omit("KnowledgePoint").Create(link).Error
}

// ReplaceLinks 删除题目原有标注后写入新的标注
func (r *QuestionRepository) ReplaceLinks(questionID string, links []model.QuestionKnowledge) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.QuestionKnowledge{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Omit("KnowledgePoint").Create(&links).Error
	})
}

func (r *QuestionRepository) KnowledgeOf(questionID string) ([]model.QuestionKnowledge, error) {
	var links []model.QuestionKnowledge
	err := r.DB.Preload("KnowledgePoint").
		Where("question_id = ?", questionID).
		Order("weight desc").
		Find(&links).Error
	return links, err
}

func (r *QuestionRepository) CountLinks(questionID string) (int64, error) {
	var n int64
	err := r.DB.Model(&model.QuestionKnowledge{}).Where("question_id = ?", questionID).Count(&n).Error
	return n, err
}

func (r *QuestionRepository) AllLinks() ([]model.QuestionKnowledge, error) {
	var links []model.QuestionKnowledge
	err := r.DB.Order("question_id asc, knowledge_point_id asc").Find(&links).Error
	return links, err
}

package repository

import (
	"k12_kg_backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// KnowledgeCoverage 每个知识点关联的题目数量，按数量降序
func (r *AnalyticsRepository) KnowledgeCoverage() ([]model.KnowledgeCoverageItem, error) {
	var items []model.KnowledgeCoverageItem
	err := r.DB.Table("knowledge_points").
		Select("knowledge_points.name AS knowledge_point, knowledge_points.level AS level, knowledge_points.difficulty AS difficulty, COUNT(question_knowledge.question_id) AS question_count").
		Joins("LEFT JOIN question_knowledge ON question_knowledge.knowledge_point_id = knowledge_points.id").
		Where("knowledge_points.deleted_at IS NULL").
		Group("knowledge_points.id, knowledge_points.name, knowledge_points.level, knowledge_points.difficulty").
		Order("question_count desc, knowledge_points.name asc").
		Scan(&items).Error
	return items, err
}

func (r *AnalyticsRepository) groupQuestionsBy(column string) ([]model.GroupCount, error) {
	var rows []model.GroupCount
	err := r.DB.Model(&model.Question{}).
		Select(column + " AS `key`, COUNT(*) AS count").
		Group(column).
		Order("count desc").
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) DifficultyCounts() ([]model.GroupCount, error) {
	return r.groupQuestionsBy("difficulty")
}

func (r *AnalyticsRepository) TypeCounts() ([]model.GroupCount, error) {
	return r.groupQuestionsBy("question_type")
}

func (r *AnalyticsRepository) CountQuestions() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Question{}).Count(&n).Error
	return n, err
}

// CountMatching 按难度与题型过滤后的题目总数
func (r *AnalyticsRepository) CountMatching(f model.QuestionFilter) (int64, error) {
	var n int64
	err := applyQuestionFilter(r.DB.Model(&model.Question{}), f).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) CountAnnotatedQuestions() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Question{}).
		Where("EXISTS (SELECT 1 FROM question_knowledge WHERE question_knowledge.question_id = questions.id)").
		Count(&n).Error
	return n, err
}

// AnnotatedQuestions 已标注的题目，可按难度与题型过滤
func (r *AnalyticsRepository) AnnotatedQuestions(f model.QuestionFilter) ([]model.Question, error) {
	var qs []model.Question
	query := r.DB.Model(&model.Question{}).
		Where("EXISTS (SELECT 1 FROM question_knowledge WHERE question_knowledge.question_id = questions.id)")
	err := applyQuestionFilter(query, f).
		Order("questions.created_at asc, questions.id asc").
		Find(&qs).Error
	return qs, err
}

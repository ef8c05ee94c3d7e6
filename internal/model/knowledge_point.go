package model

import "time"

// KnowledgePoint 知识点
type KnowledgePoint struct {
	UUIDBase
	Name        string     `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Level       string     `gorm:"size:50" json:"level"`
	Difficulty  Difficulty `gorm:"size:20" json:"difficulty"`
	Keywords    []string   `gorm:"type:text;serializer:json" json:"keywords"`
	ParentID    *string    `gorm:"type:varchar(36);index" json:"parent_id,omitempty"`
}

func (KnowledgePoint) TableName() string {
	return "knowledge_points"
}

type AnnotationOrigin string

const (
	OriginManual AnnotationOrigin = "manual"
	OriginAuto   AnnotationOrigin = "auto"
)

// QuestionKnowledge 题目考查知识点（TESTS 关系）
type QuestionKnowledge struct {
	QuestionID       string           `gorm:"primaryKey;type:varchar(36)" json:"question_id"`
	KnowledgePointID string           `gorm:"primaryKey;type:varchar(36);index" json:"knowledge_point_id"`
	Weight           float64          `gorm:"default:1" json:"weight"`
	Origin           AnnotationOrigin `gorm:"size:20;default:manual" json:"origin"`
	CreatedAt        time.Time        `json:"created_at"`

	KnowledgePoint *KnowledgePoint `gorm:"foreignKey:KnowledgePointID" json:"knowledge_point,omitempty"`
}

func (QuestionKnowledge) TableName() string {
	return "question_knowledge"
}

// KnowledgePrerequisite 前置要求（REQUIRES 关系）
type KnowledgePrerequisite struct {
	KnowledgePointID string    `gorm:"primaryKey;type:varchar(36)" json:"knowledge_point_id"`
	PrerequisiteID   string    `gorm:"primaryKey;type:varchar(36);index" json:"prerequisite_id"`
	Strength         float64   `gorm:"default:1" json:"strength"`
	CreatedAt        time.Time `json:"created_at"`

	Prerequisite *KnowledgePoint `gorm:"foreignKey:PrerequisiteID" json:"prerequisite,omitempty"`
}

func (KnowledgePrerequisite) TableName() string {
	return "knowledge_prerequisites"
}

// KnowledgeWeight 题目详情中的知识点及权重
type KnowledgeWeight struct {
	KnowledgePoint KnowledgePoint   `json:"knowledge_point"`
	Weight         float64          `json:"weight"`
	Origin         AnnotationOrigin `json:"origin"`
}

// KnowledgeNode 层级树节点
type KnowledgeNode struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Level    string           `json:"level"`
	Children []*KnowledgeNode `json:"children"`
}

// KnowledgePointInput 创建知识点的请求体
type KnowledgePointInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Level       string   `json:"level"`
	Difficulty  string   `json:"difficulty"`
	Keywords    []string `json:"keywords"`
	ParentID    *string  `json:"parent_id"`
}

type PrerequisiteInput struct {
	PrerequisiteID string  `json:"prerequisite_id" binding:"required"`
	Strength       float64 `json:"strength"`
}

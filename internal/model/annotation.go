package model

// Suggestion 知识点推荐
type Suggestion struct {
	KnowledgePointID   string   `json:"knowledge_point_id"`
	KnowledgePointName string   `json:"knowledge_point_name"`
	Confidence         float64  `json:"confidence"`
	MatchedKeywords    []string `json:"matched_keywords"`
	Reason             string   `json:"reason"`
	Source             string   `json:"source"` // keyword | ai
}

type SuggestRequest struct {
	QuestionContent string `json:"question_content" binding:"required"`
	QuestionType    string `json:"question_type"`
}

type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	Count       int          `json:"count"`
	Message     string       `json:"message"`
}

// AutoAnnotation 自动标注决策
type AutoAnnotation struct {
	KnowledgePointID   string  `json:"knowledge_point_id"`
	KnowledgePointName string  `json:"knowledge_point_name"`
	Confidence         float64 `json:"confidence"`
	DecisionScore      float64 `json:"decision_score"`
	Weight             float64 `json:"weight"`
	Reason             string  `json:"reason"`
	AutoApplied        bool    `json:"auto_applied"`
}

type AutoAnnotateResult struct {
	QuestionID         string           `json:"question_id"`
	Suggestions        []Suggestion     `json:"suggestions"`
	AutoAnnotations    []AutoAnnotation `json:"auto_annotations"`
	AppliedAnnotations []AutoAnnotation `json:"applied_annotations"`
	Status             string           `json:"status"`
}

type BatchAnnotateResult struct {
	Processed int `json:"processed"`
	Applied   int `json:"applied"`
	Failed    int `json:"failed"`
}

// AnnotationInput 提交标注时的单条知识点
type AnnotationInput struct {
	KnowledgePointID string  `json:"knowledge_point_id" binding:"required"`
	Weight           float64 `json:"weight"`
}

type SubmitAnnotationRequest struct {
	QuestionID  string            `json:"question_id" binding:"required"`
	Annotations []AnnotationInput `json:"annotations"`
}

// AnnotationLog 自动标注历史
type AnnotationLog struct {
	BaseModel
	QuestionID      string `gorm:"type:varchar(36);index" json:"question_id"`
	QuestionType    string `gorm:"size:50" json:"question_type"`
	SuggestionCount int    `json:"suggestion_count"`
	DecisionCount   int    `json:"decision_count"`
	AppliedCount    int    `json:"applied_count"`
	Detail          string `gorm:"type:text" json:"detail"`
}

func (AnnotationLog) TableName() string {
	return "annotation_logs"
}

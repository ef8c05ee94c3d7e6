package model

// KnowledgeCoverageItem 单个知识点的题目覆盖
type KnowledgeCoverageItem struct {
	KnowledgePoint string `json:"knowledge_point"`
	Level          string `json:"level"`
	Difficulty     string `json:"difficulty"`
	QuestionCount  int64  `json:"question_count"`
}

type CoverageSummary struct {
	TotalKnowledgePoints   int     `json:"total_knowledge_points"`
	CoveredKnowledgePoints int     `json:"covered_knowledge_points"`
	CoverageRate           float64 `json:"coverage_rate"`
	TotalQuestions         int64   `json:"total_questions"`
	AverageQuestionsPerKP  float64 `json:"average_questions_per_kp"`
}

type CoverageAnalysis struct {
	CoverageData []KnowledgeCoverageItem `json:"coverage_data"`
	Summary      CoverageSummary         `json:"summary"`
}

type DifficultyBucket struct {
	Difficulty string  `json:"difficulty"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DifficultyDistribution struct {
	DifficultyDistribution []DifficultyBucket `json:"difficulty_distribution"`
	TotalQuestions         int64              `json:"total_questions"`
}

type TypeBucket struct {
	QuestionType string  `json:"question_type"`
	Count        int64   `json:"count"`
	Percentage   float64 `json:"percentage"`
}

type TypeDistribution struct {
	TypeDistribution []TypeBucket `json:"type_distribution"`
	TotalQuestions   int64        `json:"total_questions"`
}

// GroupCount 分组统计的扫描结果
type GroupCount struct {
	Key   string
	Count int64
}

type DashboardStats struct {
	TotalKnowledgePoints int64   `json:"total_knowledge_points"`
	TotalQuestions       int64   `json:"total_questions"`
	AnnotatedQuestions   int64   `json:"annotated_questions"`
	AnnotationCoverage   float64 `json:"annotation_coverage"`
}

// AccuracyDetail 单题的标注准确性判定
type AccuracyDetail struct {
	QuestionID   string   `json:"question_id"`
	Content      string   `json:"content"`
	AnnotatedKPs []string `json:"annotated_kps"`
	ExpectedKPs  []string `json:"expected_kps"`
	Matches      []string `json:"matches"`
	IsAccurate   bool     `json:"is_accurate"`
}

type AccuracyAnalysis struct {
	AccuracyRate       float64          `json:"accuracy_rate"`
	CorrectAnnotations int              `json:"correct_annotations"`
	TotalAnnotations   int              `json:"total_annotations"`
	Details            []AccuracyDetail `json:"details"`
}

// AIAgentAccuracy GET /analytics/ai-agent-accuracy 的响应
type AIAgentAccuracy struct {
	AccuracyAnalysis AccuracyAnalysis `json:"accuracy_analysis"`
	TotalAnnotated   int              `json:"total_annotated"`
	UnannotatedCount int64            `json:"unannotated_count"`
	CoverageRate     float64          `json:"coverage_rate"`
	Pagination       Pagination       `json:"pagination"`
}

package model

import "time"

// GraphSnapshot 知识图谱导出快照
type GraphSnapshot struct {
	ExportedAt      time.Time               `json:"exported_at"`
	KnowledgePoints []KnowledgePoint        `json:"knowledge_points"`
	Prerequisites   []KnowledgePrerequisite `json:"prerequisites"`
	Questions       []Question              `json:"questions"`
	Annotations     []QuestionKnowledge     `json:"annotations"`
}

type ExportResult struct {
	URL                 string `json:"url"`
	Filename            string `json:"filename"`
	QuestionCount       int    `json:"question_count"`
	KnowledgePointCount int    `json:"knowledge_point_count"`
	AnnotationCount     int    `json:"annotation_count"`
}

// GraphSyncResult 图谱全量同步统计
type GraphSyncResult struct {
	KnowledgePoints int `json:"knowledge_points"`
	Questions       int `json:"questions"`
	Tests           int `json:"tests"`
	SubPoints       int `json:"sub_points"`
	Requires        int `json:"requires"`
}

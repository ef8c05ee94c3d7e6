package model

type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyUnknown Difficulty = "unknown"
)

// NormalizeDifficulty 非法或缺省的难度统一为 unknown
func NormalizeDifficulty(d string) Difficulty {
	switch Difficulty(d) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(d)
	}
	return DifficultyUnknown
}

// 题目类型
const (
	TypeMultipleChoice       = "选择题"
	TypeFillBlank            = "填空题"
	TypeReadingComprehension = "阅读理解"
	TypeTranslation          = "翻译题"
	TypeWriting              = "写作题"
	TypeListening            = "听力题"
)

// Question 题目
type Question struct {
	UUIDBase
	Content      string     `gorm:"type:text;not null" json:"content"`
	QuestionType string     `gorm:"size:50;index" json:"question_type"`
	Options      []string   `gorm:"type:text;serializer:json" json:"options"`
	Answer       string     `gorm:"type:text" json:"answer"`
	Analysis     string     `gorm:"type:text" json:"analysis"`
	Source       string     `gorm:"size:255;index" json:"source"`
	Difficulty   Difficulty `gorm:"size:20;index;default:unknown" json:"difficulty"`
	GradeLevel   string     `gorm:"size:50;index" json:"grade_level"`

	// 由服务层根据 TESTS 关系填充的知识点名称
	KnowledgePoints []string `gorm:"-" json:"knowledge_points"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionFilter 题目列表筛选条件，空字段表示不限
type QuestionFilter struct {
	Difficulty   string `form:"difficulty" json:"difficulty,omitempty"`
	QuestionType string `form:"question_type" json:"question_type,omitempty"`
	GradeLevel   string `form:"grade_level" json:"grade_level,omitempty"`
	Source       string `form:"source" json:"source,omitempty"`
}

// QuestionImport 批量导入的单条题目
type QuestionImport struct {
	Content         string   `json:"content" binding:"required"`
	QuestionType    string   `json:"question_type"`
	Options         []string `json:"options"`
	Answer          string   `json:"answer"`
	Analysis        string   `json:"analysis"`
	Source          string   `json:"source"`
	Difficulty      string   `json:"difficulty"`
	GradeLevel      string   `json:"grade_level"`
	KnowledgePoints []string `json:"knowledge_points"`
}

type ImportResult struct {
	Imported      int      `json:"imported"`
	Linked        int      `json:"linked"`
	AutoAnnotated int      `json:"auto_annotated"`
	UnknownLabels []string `json:"unknown_labels"`
}

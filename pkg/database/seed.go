package database

import (
	_ "embed"
	"fmt"
	"k12_kg_backend/internal/model"
	"log"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed.yaml
var seedData []byte

type seedKnowledgePoint struct {
	Name        string   `yaml:"name"`
	Parent      string   `yaml:"parent"`
	Description string   `yaml:"description"`
	Level       string   `yaml:"level"`
	Difficulty  string   `yaml:"difficulty"`
	Keywords    []string `yaml:"keywords"`
	Requires    []string `yaml:"requires"`
}

type seedQuestion struct {
	Content         string   `yaml:"content"`
	QuestionType    string   `yaml:"question_type"`
	Options         []string `yaml:"options"`
	Answer          string   `yaml:"answer"`
	Difficulty      string   `yaml:"difficulty"`
	GradeLevel      string   `yaml:"grade_level"`
	Source          string   `yaml:"source"`
	KnowledgePoints []string `yaml:"knowledge_points"`
}

type seedFile struct {
	KnowledgePoints []seedKnowledgePoint `yaml:"knowledge_points"`
	Questions       []seedQuestion       `yaml:"questions"`
}

// Seed 知识点表为空时写入默认的知识点目录和示例题目
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.KnowledgePoint{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var data seedFile
	if err := yaml.Unmarshal(seedData, &data); err != nil {
		return fmt.Errorf("parse seed data: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]string, len(data.KnowledgePoints))
		for _, s := range data.KnowledgePoints {
			kp := model.KnowledgePoint{
				Name:        s.Name,
				Description: s.Description,
				Level:       s.Level,
				Difficulty:  model.NormalizeDifficulty(s.Difficulty),
				Keywords:    s.Keywords,
			}
			if s.Parent != "" {
				parentID, ok := ids[s.Parent]
				if !ok {
					return fmt.Errorf("seed: parent %q of %q must be declared first", s.Parent, s.Name)
				}
				kp.ParentID = &parentID
			}
			if err := tx.Create(&kp).Error; err != nil {
				return err
			}
			ids[s.Name] = kp.ID
		}

		for _, s := range data.KnowledgePoints {
			for _, req := range s.Requires {
				reqID, ok := ids[req]
				if !ok {
					return fmt.Errorf("seed: unknown prerequisite %q", req)
				}
				if err := tx.Create(&model.KnowledgePrerequisite{
					KnowledgePointID: ids[s.Name],
					PrerequisiteID:   reqID,
					Strength:         1,
				}).Error; err != nil {
					return err
				}
			}
		}

		for _, s := range data.Questions {
			q := model.Question{
				Content:      s.Content,
				QuestionType: s.QuestionType,
				Options:      s.Options,
				Answer:       s.Answer,
				Difficulty:   model.NormalizeDifficulty(s.Difficulty),
				GradeLevel:   s.GradeLevel,
				Source:       s.Source,
			}
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
			for _, name := range s.KnowledgePoints {
				kpID, ok := ids[name]
				if !ok {
					return fmt.Errorf("seed: unknown knowledge point %q", name)
				}
				if err := tx.Create(&model.QuestionKnowledge{
					QuestionID:       q.ID,
					KnowledgePointID: kpID,
					Weight:           1,
					Origin:           model.OriginManual,
				}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Seeded %d knowledge points and %d questions", len(data.KnowledgePoints), len(data.Questions))
	return nil
}

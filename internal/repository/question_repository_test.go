package repository

import (
	"testing"

	"k12_kg_backend/internal/model"
	"k12_kg_backend/pkg/database"
)

func TestKnowledgeNamesAndUnannotated(t *testing.T) {
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	questions := NewQuestionRepository(db)
	kps := NewKnowledgePointRepository(db)

	heavy := &model.KnowledgePoint{Name: "被动语态"}
	light := &model.KnowledgePoint{Name: "一般过去时"}
	gone := &model.KnowledgePoint{Name: "已删除"}
	for _, kp := range []*model.KnowledgePoint{heavy, light, gone} {
		if err := kps.Create(kp); err != nil {
			t.Fatalf("create knowledge point: %v", err)
		}
	}

	labeled := &model.Question{Content: "The window was broken by Tom yesterday."}
	plain := &model.Question{Content: "No label."}
	for _, q := range []*model.Question{labeled, plain} {
		if err := questions.Create(q); err != nil {
			t.Fatalf("create question: %v", err)
		}
	}

	links := []model.QuestionKnowledge{
		{QuestionID: labeled.ID, KnowledgePointID: light.ID, Weight: 0.4},
		{QuestionID: labeled.ID, KnowledgePointID: heavy.ID, Weight: 0.9},
		{QuestionID: labeled.ID, KnowledgePointID: gone.ID, Weight: 1},
	}
	if err := questions.ReplaceLinks(labeled.ID, links); err != nil {
		t.Fatalf("ReplaceLinks: %v", err)
	}
	if err := db.Delete(gone).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	names, err := questions.KnowledgeNames([]string{labeled.ID, plain.ID})
	if err != nil {
		t.Fatalf("KnowledgeNames: %v", err)
	}
	got := names[labeled.ID]
	if len(got) != 2 || got[0] != "被动语态" || got[1] != "一般过去时" {
		t.Fatalf("labels ordered by weight: got=%v", got)
	}
	if _, ok := names[plain.ID]; ok {
		t.Fatalf("unlabeled question should have no entry: %v", names)
	}

	un, err := questions.FindUnannotated(10)
	if err != nil {
		t.Fatalf("FindUnannotated: %v", err)
	}
	if len(un) != 1 || un[0].ID != plain.ID {
		t.Fatalf("unannotated: got=%+v", un)
	}

	if err := questions.ReplaceLinks(labeled.ID, nil); err != nil {
		t.Fatalf("ReplaceLinks empty: %v", err)
	}
	if n, _ := questions.CountLinks(labeled.ID); n != 0 {
		t.Fatalf("links after clearing: want=0 got=%d", n)
	}
}

func TestLinkUpsertsWeight(t *testing.T) {
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	questions := NewQuestionRepository(db)
	kps := NewKnowledgePointRepository(db)

	kp := &model.KnowledgePoint{Name: "定语从句"}
	q := &model.Question{Content: "The man who lives here is kind."}
	if err := kps.Create(kp); err != nil {
		t.Fatalf("create knowledge point: %v", err)
	}
	if err := questions.Create(q); err != nil {
		t.Fatalf("create question: %v", err)
	}

	for _, w := range []float64{0.3, 0.8} {
		err := questions.Link(&model.QuestionKnowledge{QuestionID: q.ID, KnowledgePointID: kp.ID, Weight: w, Origin: model.OriginAuto})
		if err != nil {
			t.Fatalf("Link(%v): %v", w, err)
		}
	}
	links, err := questions.KnowledgeOf(q.ID)
	if err != nil {
		t.Fatalf("KnowledgeOf: %v", err)
	}
	if len(links) != 1 || links[0].Weight != 0.8 || links[0].KnowledgePoint == nil {
		t.Fatalf("links: got=%+v", links)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/util"
)

func TestListQuestionsClampsPage(t *testing.T) {
	e := newTestEnv(t)
	for i := 0; i < 45; i++ {
		e.mustQuestion(t, model.QuestionImport{Content: fmt.Sprintf("Question %d", i), Difficulty: "easy"})
	}

	page, err := e.questions.ListQuestions(model.QuestionFilter{}, 9, 20)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	p := page.Pagination
	if p.Page != 3 || p.TotalPages != 3 || p.TotalCount != 45 {
		t.Fatalf("pagination: want page 3 of 3 (45) got=%+v", p)
	}
	if !p.HasPrev || p.HasNext {
		t.Fatalf("has_prev/has_next: got=%v/%v", p.HasPrev, p.HasNext)
	}
	if len(page.Questions) != 5 {
		t.Fatalf("questions on last page: want=5 got=%d", len(page.Questions))
	}

	page, err = e.questions.ListQuestions(model.QuestionFilter{}, -2, 500)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.PageSize != model.MaxPageSize {
		t.Fatalf("pagination: want page 1 size %d got=%+v", model.MaxPageSize, page.Pagination)
	}
	if len(page.Questions) != 45 {
		t.Fatalf("questions: want=45 got=%d", len(page.Questions))
	}
}

func TestListQuestionsEmptyAndFiltered(t *testing.T) {
	e := newTestEnv(t)

	page, err := e.questions.ListQuestions(model.QuestionFilter{}, 4, 0)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.TotalPages != 0 || page.Pagination.PageSize != model.DefaultPageSize {
		t.Fatalf("empty pagination: got=%+v", page.Pagination)
	}
	if page.Questions == nil {
		t.Fatalf("Questions: want empty slice got nil")
	}

	e.mustQuestion(t, model.QuestionImport{Content: "A", QuestionType: model.TypeFillBlank, Difficulty: "hard", Source: "中考"})
	e.mustQuestion(t, model.QuestionImport{Content: "B", QuestionType: model.TypeFillBlank, Difficulty: "easy"})
	e.mustQuestion(t, model.QuestionImport{Content: "C", QuestionType: model.TypeMultipleChoice, Difficulty: "hard"})

	page, err = e.questions.ListQuestions(model.QuestionFilter{QuestionType: model.TypeFillBlank, Difficulty: "hard"}, 1, 20)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if page.Pagination.TotalCount != 1 || page.Questions[0].Content != "A" {
		t.Fatalf("filtered: got=%+v", page)
	}
	if page.Questions[0].KnowledgePoints == nil || page.Questions[0].Options == nil {
		t.Fatalf("nil slices should be normalized: %+v", page.Questions[0])
	}
}

func TestCreateQuestionValidates(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.questions.Create(context.Background(), model.QuestionImport{Content: "   "})
	if !errors.Is(err, util.ErrEmptyContent) {
		t.Fatalf("err: want=%v got=%v", util.ErrEmptyContent, err)
	}

	q := e.mustQuestion(t, model.QuestionImport{Content: " He is here. ", Difficulty: "extreme"})
	if q.Content != "He is here." || q.Difficulty != model.DifficultyUnknown {
		t.Fatalf("normalized question: got=%+v", q)
	}
}

func TestImportLinksByName(t *testing.T) {
	e := newTestEnv(t)
	e.mustKP(t, "一般现在时", "every day")
	e.mustKP(t, "一般过去时", "yesterday")

	items := []model.QuestionImport{
		{Content: "He plays football every day.", KnowledgePoints: []string{"一般现在时", "不存在"}},
		{Content: "I went home yesterday.", KnowledgePoints: []string{"一般过去时", "不存在"}},
		{Content: "She often reads.", QuestionType: model.TypeMultipleChoice},
	}
	res, err := e.questions.Import(context.Background(), items, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 3 || res.Linked != 2 {
		t.Fatalf("result: want imported=3 linked=2 got=%+v", res)
	}
	if len(res.UnknownLabels) != 1 || res.UnknownLabels[0] != "不存在" {
		t.Fatalf("UnknownLabels: got=%v", res.UnknownLabels)
	}

	qs, err := e.questions.QuestionsByKnowledge("一般过去时")
	if err != nil {
		t.Fatalf("QuestionsByKnowledge: %v", err)
	}
	if len(qs) != 1 || qs[0].KnowledgePoints[0] != "一般过去时" {
		t.Fatalf("by knowledge: got=%+v", qs)
	}
}

func TestImportAutoAnnotatesUnlabeled(t *testing.T) {
	e := newTestEnv(t)
	e.mustKP(t, "一般现在时", "every day")

	res, err := e.questions.Import(context.Background(), []model.QuestionImport{
		{Content: "We clean the room every day.", QuestionType: model.TypeMultipleChoice},
	}, true)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.AutoAnnotated != 1 {
		t.Fatalf("AutoAnnotated: want=1 got=%d", res.AutoAnnotated)
	}
}

func TestLinkKnowledgeClampsWeight(t *testing.T) {
	e := newTestEnv(t)
	kp := e.mustKP(t, "被动语态")
	q := e.mustQuestion(t, model.QuestionImport{Content: "The room was cleaned by Tom."})

	cases := []struct {
		in, want float64
	}{
		{0, 1},
		{-3, 1},
		{1.5, 1},
		{0.45678, 0.457},
	}
	for _, c := range cases {
		if err := e.questions.LinkKnowledge(context.Background(), q.ID, kp.ID, c.in); err != nil {
			t.Fatalf("LinkKnowledge(%v): %v", c.in, err)
		}
		kws, err := e.questions.KnowledgeOf(q.ID)
		if err != nil {
			t.Fatalf("KnowledgeOf: %v", err)
		}
		if len(kws) != 1 || kws[0].Weight != c.want {
			t.Fatalf("weight for %v: want=%v got=%+v", c.in, c.want, kws)
		}
		if kws[0].KnowledgePoint.Name != "被动语态" || kws[0].Origin != model.OriginManual {
			t.Fatalf("link: got=%+v", kws[0])
		}
	}
}

func TestLinkKnowledgeNotFound(t *testing.T) {
	e := newTestEnv(t)
	kp := e.mustKP(t, "定语从句")
	q := e.mustQuestion(t, model.QuestionImport{Content: "The boy who is running is Tom."})

	if err := e.questions.LinkKnowledge(context.Background(), "missing", kp.ID, 1); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("missing question: got=%v", err)
	}
	if err := e.questions.LinkKnowledge(context.Background(), q.ID, "missing", 1); !errors.Is(err, util.ErrKnowledgePointNotFound) {
		t.Fatalf("missing knowledge point: got=%v", err)
	}
	if _, err := e.questions.KnowledgeOf("missing"); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("KnowledgeOf missing: got=%v", err)
	}
}

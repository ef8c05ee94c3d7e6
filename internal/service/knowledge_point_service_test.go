package service

import (
	"context"
	"errors"
	"testing"

	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/util"
)

func TestCreateKnowledgePointValidates(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	if _, err := e.knowledge.Create(ctx, model.KnowledgePointInput{Name: "  "}); !errors.Is(err, util.ErrEmptyName) {
		t.Fatalf("empty name: got=%v", err)
	}

	kp, err := e.knowledge.Create(ctx, model.KnowledgePointInput{Name: "动词时态", Keywords: []string{" tense ", "", "verb"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(kp.Keywords) != 2 || kp.Keywords[0] != "tense" {
		t.Fatalf("keywords: want [tense verb] got=%v", kp.Keywords)
	}
	if kp.Difficulty != model.DifficultyUnknown {
		t.Fatalf("difficulty: want unknown got=%s", kp.Difficulty)
	}

	if _, err := e.knowledge.Create(ctx, model.KnowledgePointInput{Name: "动词时态"}); !errors.Is(err, util.ErrDuplicateKnowledgePoint) {
		t.Fatalf("duplicate: got=%v", err)
	}

	missing := "missing"
	if _, err := e.knowledge.Create(ctx, model.KnowledgePointInput{Name: "一般现在时", ParentID: &missing}); !errors.Is(err, util.ErrKnowledgePointNotFound) {
		t.Fatalf("missing parent: got=%v", err)
	}
}

func TestHierarchyTree(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	grammar := e.mustKP(t, "英语语法")
	tense := e.mustKP(t, "动词时态")
	present := e.mustKP(t, "一般现在时")
	e.mustKP(t, "阅读技巧")

	if err := e.knowledge.LinkChild(ctx, grammar.ID, tense.ID); err != nil {
		t.Fatalf("LinkChild: %v", err)
	}
	if err := e.knowledge.LinkChild(ctx, tense.ID, present.ID); err != nil {
		t.Fatalf("LinkChild: %v", err)
	}

	roots, err := e.knowledge.Hierarchy()
	if err != nil {
		t.Fatalf("Hierarchy: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("roots: want=2 got=%d", len(roots))
	}
	var g *model.KnowledgeNode
	for _, r := range roots {
		if r.ID == grammar.ID {
			g = r
		}
	}
	if g == nil || len(g.Children) != 1 || g.Children[0].ID != tense.ID {
		t.Fatalf("grammar subtree: got=%+v", g)
	}
	if len(g.Children[0].Children) != 1 || g.Children[0].Children[0].Name != "一般现在时" {
		t.Fatalf("tense subtree: got=%+v", g.Children[0])
	}
	if leaf := g.Children[0].Children[0]; leaf.Children == nil {
		t.Fatalf("leaf children should be an empty slice")
	}
}

func TestLinkChildRejectsCycles(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a := e.mustKP(t, "A")
	b := e.mustKP(t, "B")
	c := e.mustKP(t, "C")

	if err := e.knowledge.LinkChild(ctx, a.ID, a.ID); !errors.Is(err, util.ErrInvalidHierarchy) {
		t.Fatalf("self link: got=%v", err)
	}
	if err := e.knowledge.LinkChild(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("LinkChild a->b: %v", err)
	}
	if err := e.knowledge.LinkChild(ctx, b.ID, c.ID); err != nil {
		t.Fatalf("LinkChild b->c: %v", err)
	}
	if err := e.knowledge.LinkChild(ctx, c.ID, a.ID); !errors.Is(err, util.ErrInvalidHierarchy) {
		t.Fatalf("cycle: want=%v got=%v", util.ErrInvalidHierarchy, err)
	}
	if err := e.knowledge.LinkChild(ctx, a.ID, "missing"); !errors.Is(err, util.ErrKnowledgePointNotFound) {
		t.Fatalf("missing child: got=%v", err)
	}
	// 重新挂到其他父节点是允许的
	if err := e.knowledge.LinkChild(ctx, a.ID, c.ID); err != nil {
		t.Fatalf("reparent: %v", err)
	}
}

func TestPrerequisites(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	perfect := e.mustKP(t, "现在完成时")
	past := e.mustKP(t, "一般过去时")

	if err := e.knowledge.AddPrerequisite(ctx, perfect.ID, model.PrerequisiteInput{PrerequisiteID: perfect.ID}); !errors.Is(err, util.ErrInvalidHierarchy) {
		t.Fatalf("self prerequisite: got=%v", err)
	}
	if err := e.knowledge.AddPrerequisite(ctx, perfect.ID, model.PrerequisiteInput{PrerequisiteID: past.ID, Strength: 0.8}); err != nil {
		t.Fatalf("AddPrerequisite: %v", err)
	}
	// 重复添加更新强度
	if err := e.knowledge.AddPrerequisite(ctx, perfect.ID, model.PrerequisiteInput{PrerequisiteID: past.ID, Strength: 0.6}); err != nil {
		t.Fatalf("AddPrerequisite again: %v", err)
	}

	prereqs, err := e.knowledge.Prerequisites(perfect.ID)
	if err != nil {
		t.Fatalf("Prerequisites: %v", err)
	}
	if len(prereqs) != 1 || prereqs[0].Strength != 0.6 {
		t.Fatalf("prerequisites: got=%+v", prereqs)
	}
	if prereqs[0].Prerequisite == nil || prereqs[0].Prerequisite.Name != "一般过去时" {
		t.Fatalf("preloaded prerequisite: got=%+v", prereqs[0].Prerequisite)
	}
}

func TestSearchKnowledgePoints(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	if _, err := e.knowledge.Create(ctx, model.KnowledgePointInput{Name: "被动语态", Description: "passive voice"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	e.mustKP(t, "定语从句")

	all, err := e.knowledge.Search("")
	if err != nil || len(all) != 2 {
		t.Fatalf("empty search: want 2 got=%d err=%v", len(all), err)
	}
	hits, err := e.knowledge.Search("passive")
	if err != nil || len(hits) != 1 || hits[0].Name != "被动语态" {
		t.Fatalf("search passive: got=%+v err=%v", hits, err)
	}
}

package accuracy

import (
	"reflect"
	"testing"
)

func TestExpectedKnowledgePoints(t *testing.T) {
	got := ExpectedKnowledgePoints("She usually gets up early.")
	want := []string{"一般现在时"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExpectedKnowledgePoints: want=%v got=%v", want, got)
	}
}

func TestExpectedObjectClauseNeedsTellMe(t *testing.T) {
	got := ExpectedKnowledgePoints("Can you tell me where the station is?")
	found := false
	for _, l := range got {
		if l == "宾语从句" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 宾语从句 in %v", got)
	}

	got = ExpectedKnowledgePoints("Where is the station?")
	for _, l := range got {
		if l == "宾语从句" {
			t.Fatalf("宾语从句 should not fire without 'tell me': %v", got)
		}
	}
}

func TestExpectedPassiveNeedsParticiple(t *testing.T) {
	got := ExpectedKnowledgePoints("The room was cleaned by Tom.")
	found := false
	for _, l := range got {
		if l == "被动语态" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 被动语态 in %v", got)
	}
}

func TestExpectedNoRules(t *testing.T) {
	got := ExpectedKnowledgePoints("Apple.")
	if len(got) != 0 {
		t.Fatalf("want no labels, got %v", got)
	}
}

func TestMatchExpected(t *testing.T) {
	got := MatchExpected([]string{"一般现在时", "定语从句"}, []string{"一般现在时（第三人称单数）", "介词"})
	want := []string{"一般现在时"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MatchExpected: want=%v got=%v", want, got)
	}
}

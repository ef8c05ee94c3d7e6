package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"k12_kg_backend/internal/config"
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/util"
)

func TestAIServiceDisabledWithoutKey(t *testing.T) {
	s := NewAIService(config.AIConfig{})
	if s.Enabled() {
		t.Fatalf("AI service should be disabled without api key")
	}
	if _, err := s.SuggestKnowledgePoints(context.Background(), "x", "", []string{"a"}); !errors.Is(err, util.ErrAIDisabled) {
		t.Fatalf("err: want=%v got=%v", util.ErrAIDisabled, err)
	}
}

func TestSuggestKnowledgePointsToolCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path: got=%s", r.URL.Path)
		}
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if tools, _ := req["tools"].([]interface{}); len(tools) != 1 {
			t.Errorf("tools: want 1 got=%v", req["tools"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"finish_reason":"tool_calls",
			"message":{"role":"assistant","tool_calls":[{"id":"t1","type":"function","function":{"name":"annotate_knowledge_points",
			"arguments":"{\"annotations\":[{\"knowledge_point\":\"被动语态\",\"confidence\":1.4,\"reason\":\"was built by\"},{\"knowledge_point\":\" \",\"confidence\":0.5}]}"}}]}}]}`))
	}))
	defer srv.Close()

	s := NewAIService(config.AIConfig{BaseURL: srv.URL + "/v1", APIKey: "test-key", Model: "test-model"})
	got, err := s.SuggestKnowledgePoints(context.Background(), "The bridge was built by workers.", model.TypeTranslation, []string{"被动语态", "定语从句"})
	if err != nil {
		t.Fatalf("SuggestKnowledgePoints: %v", err)
	}
	if len(got) != 1 || got[0].KnowledgePoint != "被动语态" || got[0].Confidence != 1 {
		t.Fatalf("suggestions: got=%+v", got)
	}
}

func TestParseAISuggestionsRejectsGarbage(t *testing.T) {
	if _, err := parseAISuggestions("not json"); err == nil {
		t.Fatalf("parseAISuggestions: want error for invalid json")
	}
	got, err := parseAISuggestions(`{"annotations":[{"knowledge_point":"定语从句","confidence":-1}]}`)
	if err != nil || len(got) != 1 || got[0].Confidence != 0 {
		t.Fatalf("parseAISuggestions: got=%+v err=%v", got, err)
	}
}

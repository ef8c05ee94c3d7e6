package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"k12_kg_backend/internal/dashboard"
)

func TestRunPrintsPageAndAccuracy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/questions/":
			w.Write([]byte(`{"questions":[
				{"id":"q1","content":"She goes to school every day.","question_type":"选择题","difficulty":"easy","knowledge_points":["一般现在时"]},
				{"id":"q2","content":"Tom is taller than Jim.","question_type":"选择题","difficulty":"easy","knowledge_points":[]}],
				"pagination":{"page":2,"page_size":2,"total_pages":3,"total_count":6,"has_prev":true,"has_next":true}}`))
		case "/api/analytics/ai-agent-accuracy":
			w.Write([]byte(`{"accuracy_analysis":{"accuracy_rate":75,"correct_annotations":3,"total_annotations":4},"coverage_rate":66.67,"unannotated_count":2}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := dashboard.NewClient(srv.URL+"/api", time.Second, nil)
	var out bytes.Buffer
	if err := run(context.Background(), &out, client, options{page: 2}, 2); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	for _, want := range []string{"筛选: 全部", "q1", "未标注", "[< 1]", "(2)", "[3 >]", "显示第 3-4 条，共 6 条", "覆盖率", "50%", "75.00%"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunPrintsActiveFilters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/questions/":
			gotQuery = r.URL.Query().Get("difficulty")
			w.Write([]byte(`{"questions":[],"pagination":{"page":1,"page_size":20,"total_pages":0,"total_count":0}}`))
		case "/api/analytics/ai-agent-accuracy":
			w.Write([]byte(`{"accuracy_analysis":{}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := dashboard.NewClient(srv.URL+"/api", time.Second, nil)
	opts := options{page: 1, filters: dashboard.FilterSet{Difficulty: "easy"}}
	var out bytes.Buffer
	if err := run(context.Background(), &out, client, opts, 20); err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotQuery != "easy" {
		t.Fatalf("difficulty query: want=easy got=%q", gotQuery)
	}
	if text := out.String(); !strings.Contains(text, "筛选: difficulty=easy") {
		t.Fatalf("output missing filter header:\n%s", text)
	}
}

func TestRunReturnsRetryableError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := dashboard.NewClient(srv.URL+"/api", time.Second, nil)
	err := run(context.Background(), &bytes.Buffer{}, client, options{page: 1}, 20)
	if err == nil || !dashboard.Retryable(err) {
		t.Fatalf("run: want retryable error got=%v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("一般现在时练习", 4); got != "一般现在..." {
		t.Fatalf("truncate: got=%q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate: got=%q", got)
	}
}

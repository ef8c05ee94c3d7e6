package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", 2*time.Second, nil)
}

func TestClientListQuestions(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/questions/" {
			t.Errorf("path: want=/api/questions/ got=%s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"questions":[{"id":"q1","content":"He goes to school every day.","knowledge_points":null}],
			"pagination":{"page":1,"page_size":20,"total_pages":1,"total_count":1,"has_prev":false,"has_next":false}}`))
	})

	page, err := c.ListQuestions(context.Background(), 1, 20, FilterSet{Difficulty: "easy"})
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if gotQuery != "difficulty=easy&page=1&page_size=20" {
		t.Fatalf("query: got=%s", gotQuery)
	}
	if len(page.Questions) != 1 || page.Questions[0].ID != "q1" {
		t.Fatalf("questions: got=%+v", page.Questions)
	}
	if page.Questions[0].KnowledgePoints == nil {
		t.Fatalf("null knowledge_points should decode as empty slice")
	}
	if page.Pagination.TotalCount != 1 {
		t.Fatalf("TotalCount: want=1 got=%d", page.Pagination.TotalCount)
	}
}

func TestClientMissingFieldsDefault(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	page, err := c.ListQuestions(context.Background(), 1, 20, FilterSet{})
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if page.Questions == nil || len(page.Questions) != 0 {
		t.Fatalf("Questions: want empty got=%v", page.Questions)
	}
	if page.Pagination.TotalPages != 0 {
		t.Fatalf("TotalPages: want=0 got=%d", page.Pagination.TotalPages)
	}

	kws, err := c.QuestionKnowledge(context.Background(), "q1")
	if err != nil {
		t.Fatalf("QuestionKnowledge: %v", err)
	}
	if kws == nil || len(kws) != 0 {
		t.Fatalf("QuestionKnowledge: want empty got=%v", kws)
	}
}

func TestClientStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":404,"message":"question not found"}`))
	})
	_, err := c.QuestionKnowledge(context.Background(), "missing")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err: want *StatusError got=%T %v", err, err)
	}
	if se.StatusCode != http.StatusNotFound || se.Message != "question not found" {
		t.Fatalf("StatusError: got=%+v", se)
	}
	if !Retryable(err) {
		t.Fatalf("status errors should be retryable")
	}
}

func TestClientMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})
	_, err := c.DashboardStats(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err: want=%v got=%v", ErrMalformedResponse, err)
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url+"/api", time.Second, nil)
	_, err := c.AIAgentAccuracy(context.Background(), 1, 15, FilterSet{})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err: want *TransportError got=%T %v", err, err)
	}
}

func TestClientAIAgentAccuracy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("question_type") != "选择题" || r.URL.Query().Get("page") != "2" {
			t.Errorf("query: got=%s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"accuracy_analysis":{"accuracy_rate":50,"correct_annotations":1,"total_annotations":2},
			"coverage_rate":40,"total_annotated":2,"unannotated_count":3,
			"pagination":{"page":2,"page_size":15,"total_pages":2,"total_count":20}}`))
	})
	out, err := c.AIAgentAccuracy(context.Background(), 2, 15, FilterSet{QuestionType: "选择题"})
	if err != nil {
		t.Fatalf("AIAgentAccuracy: %v", err)
	}
	if out.AccuracyAnalysis.AccuracyRate != 50 || out.UnannotatedCount != 3 {
		t.Fatalf("decode: got=%+v", out)
	}
	if out.AccuracyAnalysis.Details == nil {
		t.Fatalf("Details: want empty slice got nil")
	}
}

func TestLoadAnalyticsSequentialAbort(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/api/analytics/coverage":
			w.Write([]byte(`{"coverage_data":[],"summary":{"total_knowledge_points":2}}`))
		case "/api/analytics/difficulty-distribution":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"code":500,"message":"服务器内部错误"}`))
		default:
			w.Write([]byte(`{"type_distribution":[]}`))
		}
	})

	out, err := c.LoadAnalytics(context.Background())
	if err == nil || out != nil {
		t.Fatalf("LoadAnalytics: want error and no result got=%+v, %v", out, err)
	}
	mu.Lock()
	defer mu.Unlock()
	want := []string{"/api/analytics/coverage", "/api/analytics/difficulty-distribution"}
	if len(paths) != len(want) {
		t.Fatalf("requests: want=%v got=%v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("requests[%d]: want=%s got=%s", i, want[i], paths[i])
		}
	}
}

func TestLoadAnalyticsSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analytics/coverage":
			w.Write([]byte(`{"summary":{"total_knowledge_points":2,"coverage_rate":50}}`))
		case "/api/analytics/difficulty-distribution":
			w.Write([]byte(`{"difficulty_distribution":[{"difficulty":"easy","count":3,"percentage":100}],"total_questions":3}`))
		default:
			w.Write([]byte(`{"total_questions":3}`))
		}
	})
	out, err := c.LoadAnalytics(context.Background())
	if err != nil {
		t.Fatalf("LoadAnalytics: %v", err)
	}
	if out.Coverage.Summary.CoverageRate != 50 || out.Coverage.CoverageData == nil {
		t.Fatalf("coverage: got=%+v", out.Coverage)
	}
	if len(out.Difficulty.DifficultyDistribution) != 1 {
		t.Fatalf("difficulty: got=%+v", out.Difficulty)
	}
	if out.Types.TypeDistribution == nil || out.Types.TotalQuestions != 3 {
		t.Fatalf("types: got=%+v", out.Types)
	}
}

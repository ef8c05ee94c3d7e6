package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"k12_kg_backend/internal/model"

	"go.uber.org/zap"
)

// ErrMalformedResponse marks a 2xx response whose body could not be decoded.
var ErrMalformedResponse = errors.New("dashboard: malformed response")

// TransportError wraps a request that never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// Client reads the annotation backend. BaseURL includes the /api prefix.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Log:     log,
	}
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, dst interface{}) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Warn("request failed", zap.String("op", op), zap.String("url", u), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	c.Log.Debug("request done",
		zap.String("op", op),
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &envelope)
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	return nil
}

// ListQuestions implements Loader against GET /questions/.
func (c *Client) ListQuestions(ctx context.Context, page, pageSize int, filters FilterSet) (*model.QuestionPage, error) {
	q := filters.Values()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out model.QuestionPage
	if err := c.getJSON(ctx, "list questions", "/questions/", q, &out); err != nil {
		return nil, err
	}
	if out.Questions == nil {
		out.Questions = []model.Question{}
	}
	for i := range out.Questions {
		if out.Questions[i].KnowledgePoints == nil {
			out.Questions[i].KnowledgePoints = []string{}
		}
	}
	return &out, nil
}

func (c *Client) AIAgentAccuracy(ctx context.Context, page, pageSize int, filters FilterSet) (*model.AIAgentAccuracy, error) {
	q := url.Values{}
	if filters.Difficulty != "" {
		q.Set("difficulty", filters.Difficulty)
	}
	if filters.QuestionType != "" {
		q.Set("question_type", filters.QuestionType)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}

	var out model.AIAgentAccuracy
	if err := c.getJSON(ctx, "ai agent accuracy", "/analytics/ai-agent-accuracy", q, &out); err != nil {
		return nil, err
	}
	if out.AccuracyAnalysis.Details == nil {
		out.AccuracyAnalysis.Details = []model.AccuracyDetail{}
	}
	return &out, nil
}

func (c *Client) QuestionKnowledge(ctx context.Context, questionID string) ([]model.KnowledgeWeight, error) {
	var out struct {
		KnowledgePoints []model.KnowledgeWeight `json:"knowledge_points"`
	}
	path := "/questions/" + url.PathEscape(questionID) + "/knowledge"
	if err := c.getJSON(ctx, "question knowledge", path, nil, &out); err != nil {
		return nil, err
	}
	if out.KnowledgePoints == nil {
		return []model.KnowledgeWeight{}, nil
	}
	return out.KnowledgePoints, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.getJSON(ctx, "dashboard stats", "/analytics/dashboard-stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Coverage(ctx context.Context) (*model.CoverageAnalysis, error) {
	var out model.CoverageAnalysis
	if err := c.getJSON(ctx, "coverage", "/analytics/coverage", nil, &out); err != nil {
		return nil, err
	}
	if out.CoverageData == nil {
		out.CoverageData = []model.KnowledgeCoverageItem{}
	}
	return &out, nil
}

func (c *Client) DifficultyDistribution(ctx context.Context) (*model.DifficultyDistribution, error) {
	var out model.DifficultyDistribution
	if err := c.getJSON(ctx, "difficulty distribution", "/analytics/difficulty-distribution", nil, &out); err != nil {
		return nil, err
	}
	if out.DifficultyDistribution == nil {
		out.DifficultyDistribution = []model.DifficultyBucket{}
	}
	return &out, nil
}

func (c *Client) TypeDistribution(ctx context.Context) (*model.TypeDistribution, error) {
	var out model.TypeDistribution
	if err := c.getJSON(ctx, "type distribution", "/analytics/type-distribution", nil, &out); err != nil {
		return nil, err
	}
	if out.TypeDistribution == nil {
		out.TypeDistribution = []model.TypeBucket{}
	}
	return &out, nil
}

// Analytics is the batch shown on the analytics tab.
type Analytics struct {
	Coverage   *model.CoverageAnalysis
	Difficulty *model.DifficultyDistribution
	Types      *model.TypeDistribution
}

// LoadAnalytics fetches the three analytics endpoints one after another and
// aborts on the first failure; no partial result is returned.
func (c *Client) LoadAnalytics(ctx context.Context) (*Analytics, error) {
	coverage, err := c.Coverage(ctx)
	if err != nil {
		return nil, err
	}
	difficulty, err := c.DifficultyDistribution(ctx)
	if err != nil {
		return nil, err
	}
	types, err := c.TypeDistribution(ctx)
	if err != nil {
		return nil, err
	}
	return &Analytics{Coverage: coverage, Difficulty: difficulty, Types: types}, nil
}

// Retryable reports whether err is a transport, status or decode failure
// the user can retry by reissuing the request.
func Retryable(err error) bool {
	var te *TransportError
	var se *StatusError
	return errors.As(err, &te) || errors.As(err, &se) || errors.Is(err, ErrMalformedResponse)
}

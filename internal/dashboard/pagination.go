// Package dashboard holds the browse-side logic of the annotation dashboard:
// paginated question browsing with filters, navigation control derivation
// and the typed client for the backend endpoints it reads.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"k12_kg_backend/internal/model"
)

// ErrStaleResponse is returned when a newer LoadPage was issued before this
// one completed. The response is discarded and the state is left untouched.
var ErrStaleResponse = errors.New("dashboard: stale response discarded")

// FilterSet constrains the question list. Empty fields impose no constraint.
type FilterSet struct {
	Difficulty   string `json:"difficulty,omitempty"`
	QuestionType string `json:"question_type,omitempty"`
	GradeLevel   string `json:"grade_level,omitempty"`
	Source       string `json:"source,omitempty"`
}

// Values returns the non-empty filters as query parameters.
func (f FilterSet) Values() url.Values {
	v := url.Values{}
	if f.Difficulty != "" {
		v.Set("difficulty", f.Difficulty)
	}
	if f.QuestionType != "" {
		v.Set("question_type", f.QuestionType)
	}
	if f.GradeLevel != "" {
		v.Set("grade_level", f.GradeLevel)
	}
	if f.Source != "" {
		v.Set("source", f.Source)
	}
	return v
}

// IsEmpty reports whether no filter is set.
func (f FilterSet) IsEmpty() bool {
	return f == FilterSet{}
}

// State mirrors the last pagination descriptor the backend returned.
type State struct {
	CurrentPage int
	PageSize    int
	TotalPages  int
	TotalCount  int64
	Filters     FilterSet
}

// Loader fetches one page of questions.
type Loader interface {
	ListQuestions(ctx context.Context, page, pageSize int, filters FilterSet) (*model.QuestionPage, error)
}

// Browser owns the pagination state for one question list view.
type Browser struct {
	loader Loader

	mu     sync.Mutex
	state  State
	latest uint64
}

func NewBrowser(loader Loader, pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	return &Browser{
		loader: loader,
		state:  State{CurrentPage: 1, PageSize: pageSize},
	}
}

func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// GoToPage reloads with the stored filters. Out-of-range pages are clamped
// by the backend.
func (b *Browser) GoToPage(ctx context.Context, page int) (*model.QuestionPage, error) {
	b.mu.Lock()
	filters := b.state.Filters
	b.mu.Unlock()
	return b.LoadPage(ctx, page, filters)
}

// ApplyFilters replaces the filters and restarts at page 1.
func (b *Browser) ApplyFilters(ctx context.Context, filters FilterSet) (*model.QuestionPage, error) {
	return b.LoadPage(ctx, 1, filters)
}

// LoadPage issues one request. On success the state is overwritten from the
// response descriptor; on failure or staleness it is left unchanged.
func (b *Browser) LoadPage(ctx context.Context, page int, filters FilterSet) (*model.QuestionPage, error) {
	b.mu.Lock()
	b.latest++
	id := b.latest
	pageSize := b.state.PageSize
	b.mu.Unlock()

	resp, err := b.loader.ListQuestions(ctx, page, pageSize, filters)

	b.mu.Lock()
	defer b.mu.Unlock()
	if id != b.latest {
		return nil, ErrStaleResponse
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("load page %d: %w", page, ErrMalformedResponse)
	}

	p := resp.Pagination
	b.state.CurrentPage = p.Page
	b.state.TotalPages = p.TotalPages
	b.state.TotalCount = p.TotalCount
	if p.PageSize > 0 {
		b.state.PageSize = p.PageSize
	}
	b.state.Filters = filters
	return resp, nil
}

// NavControl is a previous/next button.
type NavControl struct {
	Enabled bool
	Target  int
}

// PageControl is a numbered page button. The active page is not actionable.
type PageControl struct {
	Page       int
	Active     bool
	Actionable bool
}

// RangeInfo describes the rows shown on the current page, 1-based.
type RangeInfo struct {
	From  int64
	To    int64
	Total int64
}

func (r RangeInfo) String() string {
	if r.Total == 0 {
		return "共 0 条"
	}
	return "显示第 " + strconv.FormatInt(r.From, 10) + "-" + strconv.FormatInt(r.To, 10) +
		" 条，共 " + strconv.FormatInt(r.Total, 10) + " 条"
}

// ControlModel is the view model for the pagination bar.
type ControlModel struct {
	Prev  NavControl
	Next  NavControl
	Pages []PageControl
	Range RangeInfo
}

// windowRadius pages are shown on each side of the current page.
const windowRadius = 2

// RenderControls derives the navigation bar from a pagination descriptor.
func RenderControls(p model.Pagination) ControlModel {
	m := ControlModel{Pages: []PageControl{}}
	if p.TotalPages <= 0 {
		m.Range = RangeInfo{Total: p.TotalCount}
		return m
	}

	m.Prev = NavControl{Enabled: p.Page > 1, Target: p.Page - 1}
	m.Next = NavControl{Enabled: p.Page < p.TotalPages, Target: p.Page + 1}

	start := p.Page - windowRadius
	if start < 1 {
		start = 1
	}
	end := p.Page + windowRadius
	if end > p.TotalPages {
		end = p.TotalPages
	}
	for i := start; i <= end; i++ {
		m.Pages = append(m.Pages, PageControl{
			Page:       i,
			Active:     i == p.Page,
			Actionable: i != p.Page,
		})
	}

	if p.TotalCount > 0 && p.PageSize > 0 {
		from := int64(p.Page-1)*int64(p.PageSize) + 1
		to := from + int64(p.PageSize) - 1
		if to > p.TotalCount {
			to = p.TotalCount
		}
		if from > p.TotalCount {
			from = p.TotalCount
		}
		m.Range = RangeInfo{From: from, To: to, Total: p.TotalCount}
	}
	return m
}

// Confidence buckets used to color suggestions.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.7:
		return ConfidenceHigh
	case confidence >= 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Package accuracy scores how well automatic annotation tagged a batch of
// questions, using only the question text and its knowledge-point labels.
package accuracy

import (
	"math"
	"strings"

	"k12_kg_backend/internal/model"
)

// Placeholder values reported until the annotation backend exposes a real
// confidence signal.
const (
	PlaceholderAvgConfidence = 0.65
	PlaceholderAutoApplyRate = 15
)

// Summary is the locally derived accuracy view of a question batch.
type Summary struct {
	TotalQuestions int     `json:"total_questions"`
	AnnotatedCount int     `json:"annotated_count"`
	CoverageRate   int     `json:"coverage_rate"`
	AvgConfidence  float64 `json:"avg_confidence"`
	AccuracyRate   int     `json:"accuracy_rate"`
	AutoApplyRate  int     `json:"auto_apply_rate"`
}

// TriggerRule fires when every substring in All occurs in the lower-cased
// content, or when any substring in Any does.
type TriggerRule struct {
	All   []string
	Any   []string
	Label string
}

// Fires reports whether the rule matches already lower-cased content.
func (r TriggerRule) Fires(content string) bool {
	if len(r.All) > 0 {
		for _, s := range r.All {
			if !strings.Contains(content, s) {
				return false
			}
		}
		return true
	}
	for _, s := range r.Any {
		if strings.Contains(content, s) {
			return true
		}
	}
	return false
}

// TriggerRules is the fixed sanity-check table.
var TriggerRules = []TriggerRule{
	{Any: []string{"every day"}, Label: "一般现在时"},
	{Any: []string{"yesterday"}, Label: "一般过去时"},
	{Any: []string{"now"}, Label: "现在进行时"},
	{Any: []string{"already"}, Label: "现在完成时"},
	{Any: []string{"who", "which"}, Label: "定语从句"},
	{All: []string{"by", "were"}, Label: "被动语态"},
	{Any: []string{"than"}, Label: "比较级和最高级"},
}

// CoverageRate is round(100*annotated/total), 0 for an empty batch.
func CoverageRate(annotated, total int) int {
	return percent(annotated, total)
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Matches counts the rules that fire on the question and whose label the
// question carries. Each rule contributes at most once.
func Matches(q model.Question) int {
	content := strings.ToLower(q.Content)
	n := 0
	for _, rule := range TriggerRules {
		if rule.Fires(content) && hasLabel(q.KnowledgePoints, rule.Label) {
			n++
		}
	}
	return n
}

// Estimate derives the summary for questions. Accuracy can exceed 100 when
// several rules fire on the same question; it is a heuristic, not a metric.
func Estimate(questions []model.Question) Summary {
	annotated := 0
	correct := 0
	for _, q := range questions {
		if len(q.KnowledgePoints) == 0 {
			continue
		}
		annotated++
		correct += Matches(q)
	}

	return Summary{
		TotalQuestions: len(questions),
		AnnotatedCount: annotated,
		CoverageRate:   CoverageRate(annotated, len(questions)),
		AvgConfidence:  PlaceholderAvgConfidence,
		AccuracyRate:   percent(correct, annotated),
		AutoApplyRate:  PlaceholderAutoApplyRate,
	}
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

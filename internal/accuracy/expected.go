package accuracy

import "strings"

type expectationRule struct {
	any      []string
	alsoAny  []string
	label    string
	requires string
}

// expectationRules infer which knowledge points a question should carry.
// Broader than TriggerRules; used by the server-side accuracy report.
var expectationRules = []expectationRule{
	{any: []string{"every day", "every week", "always", "usually", "often"}, label: "一般现在时"},
	{any: []string{"yesterday", "last week", "last month", "ago"}, label: "一般过去时"},
	{any: []string{"now", "at the moment", "look!", "listen!"}, label: "现在进行时"},
	{any: []string{"already", "yet", "just", "ever", "never", "since", "for"}, label: "现在完成时"},
	{any: []string{"who", "which", "that", "whom", "whose"}, label: "定语从句"},
	{requires: "tell me", any: []string{"where", "what", "when", "how", "why"}, label: "宾语从句"},
	{any: []string{"by", "was", "were"}, alsoAny: []string{"cleaned", "written", "made"}, label: "被动语态"},
	{any: []string{"than", "more", "most", "-er", "-est"}, label: "比较级和最高级"},
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ExpectedKnowledgePoints returns the labels the content suggests, in rule order.
func ExpectedKnowledgePoints(content string) []string {
	content = strings.ToLower(content)
	expected := []string{}
	for _, r := range expectationRules {
		if r.requires != "" && !strings.Contains(content, r.requires) {
			continue
		}
		if !containsAny(content, r.any) {
			continue
		}
		if len(r.alsoAny) > 0 && !containsAny(content, r.alsoAny) {
			continue
		}
		expected = append(expected, r.label)
	}
	return expected
}

// MatchExpected returns the expected labels found inside any annotated label.
func MatchExpected(expected, annotated []string) []string {
	matches := []string{}
	for _, e := range expected {
		for _, a := range annotated {
			if strings.Contains(a, e) {
				matches = append(matches, e)
				break
			}
		}
	}
	return matches
}

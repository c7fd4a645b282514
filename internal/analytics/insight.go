package analytics

import (
	"sort"
	"strings"

	"feedbackhub/internal/model"
)

// Word lists for the text heuristic. They are read-only after package
// initialization.
var (
	positiveWords       = []string{"good", "great", "excellent", "helpful", "clear", "valuable", "amazing", "love", "best", "useful"}
	negativeWords       = []string{"bad", "poor", "confusing", "boring", "slow", "hard", "unclear", "difficult", "worse", "issue"}
	highlightKeywords   = []string{"instructor", "content", "hands-on", "practical", "projects", "examples", "clarity"}
	improvementKeywords = []string{"pace", "duration", "time", "support", "resources", "qa", "interaction", "practice"}
)

const (
	neutralSentiment     = 50
	sentimentStep        = 8
	positiveThreshold    = 70
	maxKeywordsPerBucket = 3
)

// keywordCounter counts keyword hits, remembering the order in which keywords
// were first seen so ties keep that order.
type keywordCounter struct {
	order  []string
	counts map[string]int
}

func newKeywordCounter() *keywordCounter {
	return &keywordCounter{counts: make(map[string]int)}
}

func (k *keywordCounter) hit(word string) {
	if _, seen := k.counts[word]; !seen {
		k.order = append(k.order, word)
	}
	k.counts[word]++
}

// top returns up to n keywords by descending count, first-seen order on ties
func (k *keywordCounter) top(n int) []string {
	ranked := make([]string, len(k.order))
	copy(ranked, k.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return k.counts[ranked[i]] > k.counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// BuildInsights scores free-text answers against the fixed word lists.
// Every list is checked against every answer with case-insensitive substring
// matching, so one answer may count toward several words.
func BuildInsights(texts []string) model.TextInsights {
	positives, negatives := 0, 0
	highlights := newKeywordCounter()
	improvements := newKeywordCounter()

	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, w := range positiveWords {
			if strings.Contains(lower, w) {
				positives++
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(lower, w) {
				negatives++
			}
		}
		for _, w := range highlightKeywords {
			if strings.Contains(lower, w) {
				highlights.hit(w)
			}
		}
		for _, w := range improvementKeywords {
			if strings.Contains(lower, w) {
				improvements.hit(w)
			}
		}
	}

	score := clamp(neutralSentiment+sentimentStep*(positives-negatives), 0, 100)
	insights := model.TextInsights{
		SentimentScore:   score,
		Highlights:       highlights.top(maxKeywordsPerBucket),
		ImprovementAreas: improvements.top(maxKeywordsPerBucket),
	}
	insights.Summary = summarize(insights)
	return insights
}

func summarize(in model.TextInsights) string {
	clauses := make([]string, 0, 3)
	if in.SentimentScore >= positiveThreshold {
		clauses = append(clauses, "Overall positive feedback trend.")
	} else {
		clauses = append(clauses, "Mixed-to-neutral feedback trend.")
	}
	if len(in.Highlights) > 0 {
		clauses = append(clauses, "Strengths: "+strings.Join(in.Highlights, ", ")+".")
	} else {
		clauses = append(clauses, "No repeated strengths detected yet.")
	}
	if len(in.ImprovementAreas) > 0 {
		clauses = append(clauses, "Improve: "+strings.Join(in.ImprovementAreas, ", ")+".")
	} else {
		clauses = append(clauses, "No repeated improvement area detected yet.")
	}
	return strings.Join(clauses, " ")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// MinRating and MaxRating bound a valid rating answer
const (
	MinRating = 1
	MaxRating = 5
)

// RatingHistogram counts ratings 1..5; index 0 holds rating 1.
// It serializes as {"1":n,"2":n,"3":n,"4":n,"5":n}.
type RatingHistogram [MaxRating]int

// Add records one rating; values outside 1..5 are ignored
func (h *RatingHistogram) Add(rating int) bool {
	if rating < MinRating || rating > MaxRating {
		return false
	}
	h[rating-1]++
	return true
}

// Count returns how many times rating was recorded
func (h RatingHistogram) Count(rating int) int {
	if rating < MinRating || rating > MaxRating {
		return 0
	}
	return h[rating-1]
}

// Total is the number of recorded ratings
func (h RatingHistogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Sum is the sum of all recorded rating values
func (h RatingHistogram) Sum() int {
	s := 0
	for i, c := range h {
		s += (i + 1) * c
	}
	return s
}

func (h RatingHistogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `"%d":%d`, i+1, c)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (h *RatingHistogram) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*h = RatingHistogram{}
	for k, v := range raw {
		rating, err := strconv.Atoi(k)
		if err != nil || rating < MinRating || rating > MaxRating {
			return fmt.Errorf("rating histogram: unexpected key %q", k)
		}
		h[rating-1] = v
	}
	return nil
}

// ChoiceCount is one label of a choice tally
type ChoiceCount struct {
	Label string
	Count int
}

// ChoiceCounts is a tally over a fixed, ordered set of labels.
// It serializes as a JSON object whose keys keep the declared order.
type ChoiceCounts []ChoiceCount

// NewChoiceCounts seeds every distinct label with 0
func NewChoiceCounts(labels []string) ChoiceCounts {
	counts := make(ChoiceCounts, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		counts = append(counts, ChoiceCount{Label: l})
	}
	return counts
}

// Add increments label; labels that were not seeded are ignored
func (c ChoiceCounts) Add(label string) bool {
	for i := range c {
		if c[i].Label == label {
			c[i].Count++
			return true
		}
	}
	return false
}

// Get returns the count for label and whether the label exists
func (c ChoiceCounts) Get(label string) (int, bool) {
	for _, cc := range c {
		if cc.Label == label {
			return cc.Count, true
		}
	}
	return 0, false
}

func (c ChoiceCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cc := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cc.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(cc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *ChoiceCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("choice counts: expected object, got %v", tok)
	}
	out := ChoiceCounts{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("choice counts: expected key, got %v", tok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return err
		}
		out = append(out, ChoiceCount{Label: label, Count: n})
	}
	*c = out
	return nil
}

// YesNoSplit is the combined tally over all yes/no questions
type YesNoSplit struct {
	Yes int `json:"Yes"`
	No  int `json:"No"`
}

// QuestionBreakdown is the per-question slice of a snapshot.
// Which of the optional fields are set depends on Type.
type QuestionBreakdown struct {
	QuestionID         string           `json:"questionId"`
	Title              string           `json:"title"`
	Type               QuestionType     `json:"type"`
	TotalAnswers       int              `json:"totalAnswers"`
	RatingDistribution *RatingHistogram `json:"ratingDistribution,omitempty"`
	AverageRating      *float64         `json:"averageRating,omitempty"`
	ChoiceCounts       *ChoiceCounts    `json:"choiceCounts,omitempty"`
	TextResponses      []string         `json:"textResponses,omitempty"`
}

// MarshalJSON always emits textResponses for text questions, even when empty
func (b QuestionBreakdown) MarshalJSON() ([]byte, error) {
	type plain QuestionBreakdown
	if !b.Type.IsText() {
		return json.Marshal(plain(b))
	}
	texts := b.TextResponses
	if texts == nil {
		texts = []string{}
	}
	return json.Marshal(struct {
		plain
		TextResponses []string `json:"textResponses"`
	}{plain(b), texts})
}

// TrendPoint is the submission count of one UTC calendar day
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Visualization bundles the chart-ready rollups of a snapshot
type Visualization struct {
	OverallRatingDistribution RatingHistogram `json:"overallRatingDistribution"`
	YesNoSplit                YesNoSplit      `json:"yesNoSplit"`
	RecentTextResponses       []string        `json:"recentTextResponses"`
	SubmissionTrend           []TrendPoint    `json:"submissionTrend"`
}

// TextInsights is the keyword heuristic over free-text answers
type TextInsights struct {
	SentimentScore   int      `json:"sentimentScore"` // 0-100
	Highlights       []string `json:"highlights"`
	ImprovementAreas []string `json:"improvementAreas"`
	Summary          string   `json:"summary"`
}

// AnalyticsSnapshot is the full analytics result for a form, recomputed per request
type AnalyticsSnapshot struct {
	FormID         string              `json:"formId"`
	FormTitle      string              `json:"formTitle"`
	TotalResponses int                 `json:"totalResponses"`
	AverageRating  float64             `json:"averageRating"`
	Questions      []QuestionBreakdown `json:"questions"`
	Visualization  Visualization       `json:"visualization"`
	Insights       TextInsights        `json:"insights"`
}

// EventComment is a non-empty comment left on an event
type EventComment struct {
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// EventAnalytics is the feedback rollup of an event
type EventAnalytics struct {
	EventID            string          `json:"eventId"`
	Title              string          `json:"title"`
	TotalResponses     int             `json:"totalResponses"`
	AverageRating      float64         `json:"averageRating"`
	RatingDistribution RatingHistogram `json:"ratingDistribution"`
	Comments           []EventComment  `json:"comments"`
}

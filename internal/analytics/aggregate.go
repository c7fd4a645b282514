package analytics

import (
	"errors"
	"fmt"
	"sort"

	"feedbackhub/internal/model"
)

// ErrInvalidArgument is returned for structurally broken input
var ErrInvalidArgument = errors.New("analytics: invalid argument")

// MaxRecentTexts caps the recent text answer lists
const MaxRecentTexts = 10

const (
	untitledForm     = "Untitled Form"
	untitledQuestion = "Untitled Question"
)

// questionTally accumulates the valid answers of one question
type questionTally struct {
	question *model.Question
	total    int
	hist     model.RatingHistogram
	choices  model.ChoiceCounts
	texts    []string
}

func newQuestionTally(q *model.Question) *questionTally {
	t := &questionTally{question: q}
	switch q.Type {
	case model.QuestionTypeYesNo:
		t.choices = model.NewChoiceCounts([]string{"Yes", "No"})
	case model.QuestionTypeMultipleChoice:
		t.choices = model.NewChoiceCounts(q.Options)
	}
	return t
}

func (t *questionTally) breakdown() model.QuestionBreakdown {
	q := t.question
	b := model.QuestionBreakdown{
		QuestionID:   q.ID,
		Title:        q.Title,
		Type:         q.Type,
		TotalAnswers: t.total,
	}
	if b.Title == "" {
		b.Title = untitledQuestion
	}

	switch {
	case q.Type == model.QuestionTypeRating:
		hist := t.hist
		avg := averageOf(hist.Sum(), hist.Total())
		b.RatingDistribution = &hist
		b.AverageRating = &avg
	case q.Type == model.QuestionTypeYesNo, q.Type == model.QuestionTypeMultipleChoice:
		choices := t.choices
		b.ChoiceCounts = &choices
	case q.Type.IsText():
		b.TextResponses = mostRecent(t.texts, MaxRecentTexts)
	}
	return b
}

// Compute builds the analytics snapshot of form from its responses.
//
// Responses may arrive in any order; "most recent" selections follow
// SubmittedAt, with the input order breaking ties. The result shares no memory
// with the inputs.
func Compute(form *model.Form, responses []*model.Response) (*model.AnalyticsSnapshot, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: form is nil", ErrInvalidArgument)
	}
	for i, r := range responses {
		if r == nil {
			return nil, fmt.Errorf("%w: response %d is nil", ErrInvalidArgument, i)
		}
	}

	tallies := make([]*questionTally, len(form.Questions))
	byID := make(map[string]*questionTally, len(form.Questions))
	for i := range form.Questions {
		q := &form.Questions[i]
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidArgument, q.ID)
		}
		tallies[i] = newQuestionTally(q)
		byID[q.ID] = tallies[i]
	}

	var (
		overall  model.RatingHistogram
		yesNo    model.YesNoSplit
		allTexts []string
	)

	for _, r := range bySubmission(responses) {
		for _, a := range r.Answers {
			t, ok := byID[a.QuestionID]
			if !ok {
				continue
			}
			v, ok := parseValue(t.question, a.Value)
			if !ok {
				continue
			}
			t.total++

			switch v.kind {
			case model.QuestionTypeRating:
				t.hist.Add(v.rating)
				overall.Add(v.rating)
			case model.QuestionTypeYesNo:
				t.choices.Add(v.label)
				if v.label == "Yes" {
					yesNo.Yes++
				} else {
					yesNo.No++
				}
			case model.QuestionTypeMultipleChoice:
				t.choices.Add(v.label)
			case model.QuestionTypeShortAnswer, model.QuestionTypeParagraph:
				t.texts = append(t.texts, v.text)
				allTexts = append(allTexts, v.text)
			}
		}
	}

	breakdowns := make([]model.QuestionBreakdown, len(tallies))
	for i, t := range tallies {
		breakdowns[i] = t.breakdown()
	}

	title := form.Title
	if title == "" {
		title = untitledForm
	}

	return &model.AnalyticsSnapshot{
		FormID:         form.ID,
		FormTitle:      title,
		TotalResponses: len(responses),
		AverageRating:  averageOf(overall.Sum(), overall.Total()),
		Questions:      breakdowns,
		Visualization: model.Visualization{
			OverallRatingDistribution: overall,
			YesNoSplit:                yesNo,
			RecentTextResponses:       mostRecent(allTexts, MaxRecentTexts),
			SubmissionTrend:           BuildTrend(responses),
		},
		Insights: BuildInsights(allTexts),
	}, nil
}

// bySubmission returns a copy of responses ordered oldest first
func bySubmission(responses []*model.Response) []*model.Response {
	ordered := make([]*model.Response, len(responses))
	copy(ordered, responses)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})
	return ordered
}

// mostRecent returns the last n entries of an oldest-first list, newest first.
// The result is never nil.
func mostRecent(texts []string, n int) []string {
	start := len(texts) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, len(texts)-start)
	for i := len(texts) - 1; i >= start; i-- {
		out = append(out, texts[i])
	}
	return out
}

package analytics

import (
	"fmt"
	"sort"
	"strings"

	"feedbackhub/internal/model"
)

// ComputeEvent rolls up an event's feedback: average and histogram over the
// ratings, plus the most recent non-empty comments, newest first.
func ComputeEvent(event *model.Event, feedback []*model.EventFeedback) (*model.EventAnalytics, error) {
	if event == nil {
		return nil, fmt.Errorf("%w: event is nil", ErrInvalidArgument)
	}

	ordered := make([]*model.EventFeedback, 0, len(feedback))
	for i, f := range feedback {
		if f == nil {
			return nil, fmt.Errorf("%w: feedback %d is nil", ErrInvalidArgument, i)
		}
		ordered = append(ordered, f)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})

	var hist model.RatingHistogram
	sum := 0
	var comments []model.EventComment
	for _, f := range ordered {
		sum += f.Rating
		hist.Add(f.Rating)
		if strings.TrimSpace(f.Comment) != "" {
			comments = append(comments, model.EventComment{
				Rating:      f.Rating,
				Comment:     f.Comment,
				SubmittedAt: f.SubmittedAt,
			})
		}
	}

	recent := make([]model.EventComment, 0, MaxRecentTexts)
	for i := len(comments) - 1; i >= 0 && len(recent) < MaxRecentTexts; i-- {
		recent = append(recent, comments[i])
	}

	return &model.EventAnalytics{
		EventID:            event.ID,
		Title:              event.Title,
		TotalResponses:     len(ordered),
		AverageRating:      averageOf(sum, len(ordered)),
		RatingDistribution: hist,
		Comments:           recent,
	}, nil
}

// EventAverage is the rounded mean rating of feedback rows, 0 when empty
func EventAverage(feedback []*model.EventFeedback) float64 {
	sum, n := 0, 0
	for _, f := range feedback {
		if f == nil {
			continue
		}
		sum += f.Rating
		n++
	}
	return averageOf(sum, n)
}

package analytics

import (
	"sort"
	"time"

	"feedbackhub/internal/model"
)

const trendDateLayout = "2006-01-02"

// BuildTrend counts responses per UTC calendar day, ascending by date.
// Days without responses are omitted; responses without a timestamp are skipped.
func BuildTrend(responses []*model.Response) []model.TrendPoint {
	counts := make(map[string]int)
	for _, r := range responses {
		if r == nil || r.SubmittedAt.IsZero() {
			continue
		}
		counts[r.SubmittedAt.UTC().Format(trendDateLayout)]++
	}

	trend := make([]model.TrendPoint, 0, len(counts))
	for date, n := range counts {
		trend = append(trend, model.TrendPoint{Date: date, Count: n})
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Date < trend[j].Date
	})
	return trend
}

// StampUndated returns responses with a zero SubmittedAt replaced by now, so
// rows stored without a timestamp count as submitted at request time. Stamped
// rows are copies; the input is not modified.
func StampUndated(responses []*model.Response, now time.Time) []*model.Response {
	out := make([]*model.Response, len(responses))
	for i, r := range responses {
		if r != nil && r.SubmittedAt.IsZero() {
			stamped := *r
			stamped.SubmittedAt = now
			r = &stamped
		}
		out[i] = r
	}
	return out
}

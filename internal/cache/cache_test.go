package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedbackhub/internal/model"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestAnalyticsCache(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	c := NewAnalyticsCache(client, time.Minute)

	got, gen, err := c.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(0), gen)

	hist := model.RatingHistogram{0, 0, 1, 2, 2}
	avg := 4.2
	snap := &model.AnalyticsSnapshot{
		FormID:         "f1",
		FormTitle:      "Course",
		TotalResponses: 5,
		AverageRating:  4.2,
		Questions: []model.QuestionBreakdown{
			{QuestionID: "q1", Title: "Rate", Type: model.QuestionTypeRating, TotalAnswers: 5, RatingDistribution: &hist, AverageRating: &avg},
		},
		Visualization: model.Visualization{
			OverallRatingDistribution: hist,
			RecentTextResponses:       []string{},
			SubmissionTrend:           []model.TrendPoint{{Date: "2024-01-01", Count: 5}},
		},
		Insights: model.TextInsights{SentimentScore: 50, Highlights: []string{}, ImprovementAreas: []string{}},
	}
	require.NoError(t, c.Set(ctx, snap, gen))
	assert.Equal(t, time.Minute, mr.TTL("form:f1:analytics:0"))

	got, gen, err = c.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, c.Invalidate(ctx, "f1"))
	assert.False(t, mr.Exists("form:f1:analytics:0"))
	got, gen, err = c.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(1), gen)

	require.NoError(t, c.Set(ctx, snap, gen))
	mr.FastForward(2 * time.Minute)
	got, _, err = c.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, mr.Exists("form:f1:analytics:gen"))
}

func TestAnalyticsCache_StaleGenerationIsNeverServed(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	c := NewAnalyticsCache(client, time.Minute)

	_, gen, err := c.Get(ctx, "f1")
	require.NoError(t, err)

	// a submission lands while the snapshot for gen is being computed
	require.NoError(t, c.Invalidate(ctx, "f1"))
	require.NoError(t, c.Set(ctx, &model.AnalyticsSnapshot{FormID: "f1", TotalResponses: 0}, gen))

	got, current, err := c.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, gen+1, current)

	require.NoError(t, c.Set(ctx, &model.AnalyticsSnapshot{FormID: "f1", TotalResponses: 1}, current))
	got, _, err = c.Get(ctx, "f1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.TotalResponses)
}

func TestAnalyticsCache_RedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	c := NewAnalyticsCache(client, time.Minute)
	mr.Close()

	_, _, err = c.Get(context.Background(), "f1")
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(context.Background(), "f1"))
}

func TestNoopAnalyticsCache(t *testing.T) {
	ctx := context.Background()
	c := NewNoopAnalyticsCache()
	require.NoError(t, c.Set(ctx, &model.AnalyticsSnapshot{FormID: "f"}, 0))
	got, _, err := c.Get(ctx, "f")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Invalidate(ctx, "f"))
}

func TestRedisRateLimiter(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	l := NewRateLimiter(client)

	for i := 1; i <= 3; i++ {
		d, err := l.Allow(ctx, "login:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 3-i, d.Remaining)
		assert.Equal(t, time.Minute, d.ResetIn)
	}

	d, err := l.Allow(ctx, "login:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	// other keys have their own window
	d, err = l.Allow(ctx, "login:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	mr.FastForward(time.Minute + time.Second)
	d, err = l.Allow(ctx, "login:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)
}

func TestMemoryRateLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newMemoryRateLimiter(func() time.Time { return now })

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "k", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, _ := l.Allow(ctx, "k", 2, time.Minute)
	assert.False(t, d.Allowed)

	now = now.Add(30 * time.Second)
	d, _ = l.Allow(ctx, "k", 2, time.Minute)
	assert.False(t, d.Allowed)
	assert.Equal(t, 30*time.Second, d.ResetIn)

	now = now.Add(30 * time.Second)
	d, _ = l.Allow(ctx, "k", 2, time.Minute)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
	assert.Len(t, l.counters, 1)
}

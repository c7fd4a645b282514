package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedbackhub/internal/cache"
	"feedbackhub/internal/model"
	"feedbackhub/internal/repository"
)

type broadcast struct {
	target  string
	msgType string
	payload interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	forms  []broadcast
	events []broadcast
}

func (b *recordingBroadcaster) BroadcastToForm(formID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forms = append(b.forms, broadcast{formID, msgType, payload})
}

func (b *recordingBroadcaster) BroadcastToEvent(eventID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcast{eventID, msgType, payload})
}

// countingCache wraps a cache and counts invalidations
type countingCache struct {
	cache.AnalyticsCache
	mu          sync.Mutex
	invalidated []string
}

func (c *countingCache) Invalidate(ctx context.Context, formID string) error {
	c.mu.Lock()
	c.invalidated = append(c.invalidated, formID)
	c.mu.Unlock()
	return c.AnalyticsCache.Invalidate(ctx, formID)
}

type fixture struct {
	mem         *repository.Memory
	cache       *countingCache
	broadcaster *recordingBroadcaster
	forms       *FormService
	responses   *ResponseService
	analytics   *AnalyticsService
	events      *EventService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	mem := repository.NewMemory()
	c := &countingCache{AnalyticsCache: cache.NewNoopAnalyticsCache()}
	b := &recordingBroadcaster{}
	return &fixture{
		mem:         mem,
		cache:       c,
		broadcaster: b,
		forms:       NewFormService(mem.Forms(), mem.Responses(), c, logger),
		responses:   NewResponseService(mem.Forms(), mem.Responses(), c, b, logger),
		analytics:   NewAnalyticsService(mem.Forms(), mem.Responses(), c, logger),
		events:      NewEventService(mem.Events(), mem.EventFeedback(), b, logger),
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func (f *fixture) publishedForm(t *testing.T, owner string) *model.Form {
	t.Helper()
	form, err := f.forms.Create(context.Background(), owner, model.FormRequest{
		Title:  strPtr("Course Feedback"),
		Status: "published",
		Questions: []model.QuestionRequest{
			{Title: "Rate", Type: model.QuestionTypeRating},
			{Title: "Recommend?", Type: model.QuestionTypeYesNo},
			{Title: "Comments", Type: model.QuestionTypeParagraph},
		},
	})
	require.NoError(t, err)
	return form
}

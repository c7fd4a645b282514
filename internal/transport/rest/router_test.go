package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedbackhub/internal/cache"
	"feedbackhub/internal/config"
	"feedbackhub/internal/model"
	"feedbackhub/internal/repository"
	"feedbackhub/internal/service"
	"feedbackhub/internal/transport/rest/handler"
	"feedbackhub/internal/transport/ws"
)

const demoToken = "demo-token"

type testAPI struct {
	t       *testing.T
	handler http.Handler
	auth    *service.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	mem := repository.NewMemory()
	analyticsCache := cache.NewNoopAnalyticsCache()
	hub := ws.NewHub(logger)
	t.Cleanup(hub.Stop)

	authSvc := service.NewAuthService(mem.Users(), service.NewGoogleVerifier(""), service.AuthOptions{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		DemoToken: demoToken,
	}, logger)

	h := NewRouter(&Container{
		CORS:             config.Default().CORS,
		AuthService:      authSvc,
		FormService:      service.NewFormService(mem.Forms(), mem.Responses(), analyticsCache, logger),
		ResponseService:  service.NewResponseService(mem.Forms(), mem.Responses(), analyticsCache, hub, logger),
		AnalyticsService: service.NewAnalyticsService(mem.Forms(), mem.Responses(), analyticsCache, logger),
		EventService:     service.NewEventService(mem.Events(), mem.EventFeedback(), hub, logger),
		RateLimiter:      cache.NewMemoryRateLimiter(),
		WSHub:            hub,
		Health:           handler.HealthStatus{Storage: "memory", Cache: "disabled"},
		Logger:           logger,
	})
	return &testAPI{t: t, handler: h, auth: authSvc}
}

// do sends a JSON request; token may be empty
func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[errorBody](t, rec)
	assert.Equal(t, message, body.Message)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), body.RequestID)
	assert.NotEmpty(t, body.RequestID)
}

func (a *testAPI) createForm(body map[string]interface{}) model.Form {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/forms", demoToken, body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Form](a.t, rec)
}

func TestRouter_GenerateFromPrompt(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/forms/generate-from-prompt", demoToken, map[string]string{"prompt": "AI Bootcamp student feedback"})
	require.Equal(t, http.StatusOK, rec.Code)
	draft := decode[model.FormDraftOutline](t, rec)
	assert.Contains(t, draft.Title, "Feedback Form")
	require.GreaterOrEqual(t, len(draft.Questions), 5)
	assert.Equal(t, model.QuestionTypeRating, draft.Questions[0].Type)

	assertError(t, api.do(http.MethodPost, "/forms/generate-from-prompt", demoToken, map[string]string{}), http.StatusBadRequest, "Prompt is required")
	assertError(t, api.do(http.MethodPost, "/forms/generate-from-prompt", "", nil), http.StatusUnauthorized, "No token provided")
}

func TestRouter_DraftBlockedUntilPublished(t *testing.T) {
	api := newTestAPI(t)
	form := api.createForm(map[string]interface{}{
		"title":     "Course Form",
		"status":    "draft",
		"questions": []map[string]interface{}{{"title": "Rate", "type": "rating", "required": true, "options": []string{}}},
	})

	assertError(t, api.do(http.MethodGet, "/forms/"+form.ID, "", nil), http.StatusForbidden, "Form is not published")

	// the owner still sees the draft
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/forms/"+form.ID, demoToken, nil).Code)

	rec := api.do(http.MethodPost, "/forms/"+form.ID+"/publish", demoToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	published := decode[model.PublishResponse](t, rec)
	assert.Equal(t, "Published", published.Message)

	rec = api.do(http.MethodGet, "/forms/"+form.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.FormPublished, decode[model.Form](t, rec).Status)

	list := decode[[]model.PublishedForm](t, api.do(http.MethodGet, "/forms/published", "", nil))
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].QuestionCount)
}

func TestRouter_ResponseIdentity(t *testing.T) {
	api := newTestAPI(t)
	form := api.createForm(map[string]interface{}{
		"title":     "Identity Form",
		"status":    "published",
		"questions": []map[string]interface{}{{"title": "Rate", "type": "rating"}},
	})
	answers := []map[string]interface{}{{"questionId": form.Questions[0].ID, "answer": 5}}

	rec := api.do(http.MethodPost, "/responses/"+form.ID, "", map[string]interface{}{
		"identity": map[string]string{"mode": "named", "respondentName": ""},
		"answers":  answers,
	})
	assertError(t, rec, http.StatusBadRequest, "Respondent name is required for named submissions")

	rec = api.do(http.MethodPost, "/responses/"+form.ID, "", map[string]interface{}{
		"identity": map[string]string{"mode": "named", "respondentName": "Hari"},
		"answers":  answers,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Response submitted", decode[model.MessageResponse](t, rec).Message)

	assertError(t, api.do(http.MethodPost, "/responses/nope", "", nil), http.StatusBadRequest, "Invalid form id")
}

func TestRouter_FormAnalytics(t *testing.T) {
	api := newTestAPI(t)
	form := api.createForm(map[string]interface{}{
		"title":  "Analytics Form",
		"status": "published",
		"questions": []map[string]interface{}{
			{"title": "Rate", "type": "rating"},
			{"title": "Recommend?", "type": "yes_no"},
			{"title": "Comment", "type": "paragraph"},
		},
	})
	q := form.Questions

	submit := func(rating int, yesNo, comment string) {
		rec := api.do(http.MethodPost, "/responses/"+form.ID, "", map[string]interface{}{
			"identity": map[string]string{"mode": "anonymous"},
			"answers": []map[string]interface{}{
				{"questionId": q[0].ID, "answer": rating},
				{"questionId": q[1].ID, "answer": yesNo},
				{"questionId": q[2].ID, "answer": comment},
			},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	submit(5, "Yes", "Great instructor and practical examples")
	submit(4, "No", "Need more practice time")

	rec := api.do(http.MethodGet, "/forms/"+form.ID+"/analytics", demoToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[model.AnalyticsSnapshot](t, rec)
	assert.Equal(t, 2, snap.TotalResponses)
	assert.Equal(t, 4.5, snap.AverageRating)
	assert.Equal(t, model.YesNoSplit{Yes: 1, No: 1}, snap.Visualization.YesNoSplit)
	assert.Len(t, snap.Visualization.SubmissionTrend, 1)
	assert.NotEmpty(t, snap.Insights.Summary)

	assert.Equal(t, model.RatingHistogram{0, 0, 0, 1, 1}, snap.Visualization.OverallRatingDistribution)
	assert.Contains(t, rec.Body.String(), `"overallRatingDistribution":{"1":0,"2":0,"3":0,"4":1,"5":1}`)

	other, err := api.auth.IssueToken("65a0000000000000000000bb")
	require.NoError(t, err)
	assertError(t, api.do(http.MethodGet, "/forms/"+form.ID+"/analytics", other, nil), http.StatusForbidden, "Forbidden")
	assertError(t, api.do(http.MethodGet, "/forms/"+form.ID+"/analytics", "garbage", nil), http.StatusUnauthorized, "Invalid or expired token")
}

func TestRouter_DuplicateQuestionIDs(t *testing.T) {
	api := newTestAPI(t)
	dup := []map[string]interface{}{
		{"_id": "q1", "title": "Rate", "type": "rating"},
		{"_id": "q1", "title": "Comment", "type": "paragraph"},
	}

	rec := api.do(http.MethodPost, "/forms", demoToken, map[string]interface{}{"status": "published", "questions": dup})
	assertError(t, rec, http.StatusBadRequest, "Duplicate question id")

	form := api.createForm(map[string]interface{}{
		"status":    "published",
		"questions": []map[string]interface{}{{"_id": "q1", "title": "Rate", "type": "rating"}},
	})
	rec = api.do(http.MethodPut, "/forms/"+form.ID, demoToken, map[string]interface{}{"questions": dup})
	assertError(t, rec, http.StatusBadRequest, "Duplicate question id")

	rec = api.do(http.MethodGet, "/forms/"+form.ID+"/analytics", demoToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[model.AnalyticsSnapshot](t, rec).Questions, 1)
}

func TestRouter_FormLifecycle(t *testing.T) {
	api := newTestAPI(t)
	form := api.createForm(map[string]interface{}{"title": "Old"})

	rec := api.do(http.MethodPut, "/forms/"+form.ID, demoToken, map[string]interface{}{"title": "New", "isPublished": true})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[model.Form](t, rec)
	assert.Equal(t, "New", updated.Title)
	assert.True(t, updated.IsPublished)

	list := decode[[]model.FormSummary](t, api.do(http.MethodGet, "/forms", demoToken, nil))
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].ResponseCount)

	rec = api.do(http.MethodDelete, "/forms/"+form.ID, demoToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Form deleted", decode[model.MessageResponse](t, rec).Message)
	assertError(t, api.do(http.MethodGet, "/forms/"+form.ID, demoToken, nil), http.StatusNotFound, "Form not found")
}

func TestRouter_Events(t *testing.T) {
	api := newTestAPI(t)

	assertError(t, api.do(http.MethodPost, "/api/events", demoToken, map[string]string{}), http.StatusBadRequest, "Event title is required")

	rec := api.do(http.MethodPost, "/api/events", demoToken, map[string]string{"title": "Meetup"})
	require.Equal(t, http.StatusCreated, rec.Code)
	event := decode[model.Event](t, rec)

	rec = api.do(http.MethodGet, "/api/events/public/"+event.PublicLink, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Meetup", decode[model.PublicEvent](t, rec).Title)

	feedback := "/api/events/public/" + event.PublicLink + "/feedback"
	assertError(t, api.do(http.MethodPost, feedback, "", map[string]interface{}{"rating": 9}), http.StatusBadRequest, "Rating must be an integer from 1 to 5")
	rec = api.do(http.MethodPost, feedback, "", map[string]interface{}{"rating": 4, "comment": "good"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Feedback submitted", decode[model.MessageResponse](t, rec).Message)

	mine := decode[[]model.EventSummary](t, api.do(http.MethodGet, "/api/events/mine", demoToken, nil))
	require.Len(t, mine, 1)
	assert.Equal(t, 1, mine[0].TotalResponses)
	assert.Equal(t, 4.0, mine[0].AverageRating)

	rec = api.do(http.MethodGet, "/api/events/"+event.ID+"/analytics", demoToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[model.EventAnalytics](t, rec)
	assert.Equal(t, 1, stats.RatingDistribution.Count(4))

	assertError(t, api.do(http.MethodGet, "/api/events/public/missing", "", nil), http.StatusNotFound, "Event not found")
}

func TestRouter_AuthFlow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/auth/register", "", map[string]string{"email": "Ann@Example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	registered := decode[model.AuthResponse](t, rec)
	assert.Equal(t, "ann@example.com", registered.User.Email)

	rec = api.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "ann@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[model.AuthResponse](t, rec).Token

	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/forms", token, map[string]string{}).Code)
	assertError(t, api.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "ann@example.com", "password": "wrong"}), http.StatusBadRequest, "Invalid credentials")
	assertError(t, api.do(http.MethodPost, "/auth/google", "", map[string]string{}), http.StatusBadRequest, "Google credential is required")
}

func TestRouter_RegisterRateLimit(t *testing.T) {
	api := newTestAPI(t)

	for i := 0; i < 10; i++ {
		rec := api.do(http.MethodPost, "/auth/register", "", map[string]string{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("RateLimit-Limit"))
	}
	rec := api.do(http.MethodPost, "/auth/register", "", map[string]string{})
	assertError(t, rec, http.StatusTooManyRequests, "Too many registration attempts. Try again later.")
	assert.Equal(t, "0", rec.Header().Get("RateLimit-Remaining"))

	// login has its own budget
	rec = api.do(http.MethodPost, "/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Plumbing(t *testing.T) {
	api := newTestAPI(t)

	assertError(t, api.do(http.MethodGet, "/nope", "", nil), http.StatusNotFound, "Route not found")
	assertError(t, api.do(http.MethodPatch, "/forms", demoToken, nil), http.StatusNotFound, "Route not found")

	rec := api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.HealthStatus{Status: "ok", Storage: "memory", Cache: "disabled"}, decode[handler.HealthStatus](t, rec))

	rec = api.do(http.MethodOptions, "/forms", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = api.do(http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/forms/{id}/analytics"`)

	req := httptest.NewRequest(http.MethodPost, "/forms", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", demoToken)
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assertError(t, rec, http.StatusBadRequest, "Invalid request body")
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"feedbackhub/internal/cache"
	"feedbackhub/internal/config"
)

type stubTokens map[string]string

func (s stubTokens) ValidateToken(token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(GetUserID(r.Context())))
}

func TestExtractToken(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"Bearer abc":      "abc",
		"bearer  abc ":    "abc",
		"abc":             "abc",
		"  raw-token  ":   "raw-token",
		"Basic dXNlcjpw": "Basic dXNlcjpw",
	}
	for header, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", header)
		assert.Equal(t, want, ExtractToken(r), header)
	}
}

func TestAuthMiddleware(t *testing.T) {
	m := NewAuthMiddleware(stubTokens{"good": "u1"})
	required := RequestID(m.Require(http.HandlerFunc(echoUser)))
	optional := m.Optional(http.HandlerFunc(echoUser))

	call := func(h http.Handler, token string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	rec := call(required, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"No token provided"`)
	assert.Contains(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))

	rec = call(required, "bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")

	assert.Equal(t, "u1", call(required, "good").Body.String())
	assert.Equal(t, "u1", call(optional, "good").Body.String())
	assert.Equal(t, "", call(optional, "bad").Body.String())
	assert.Equal(t, http.StatusOK, call(optional, "").Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	incoming := "0b7a4a34-0f3c-4a47-9d55-7b1c1f3f6a10"
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, incoming)
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, incoming, seen)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.NotEqual(t, "<script>", seen)
}

func TestLoggingAndRecovery(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	h := RequestID(Logging(logger)(Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")

	completed := logs.FilterMessage("request completed").All()
	require.Len(t, completed, 1)
	fields := completed[0].ContextMap()
	assert.Equal(t, "/explode", fields["path"])
	assert.Equal(t, int64(http.StatusInternalServerError), fields["status"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), fields["requestId"])
	assert.Equal(t, 1, logs.FilterMessage("panic serving request").Len())
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	cfg := config.CORSConfig{
		AllowedOrigins: []string{"https://app.example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
	}
	h := CORS(cfg)(next)

	r := httptest.NewRequest(http.MethodOptions, "/forms", nil)
	r.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))

	r = httptest.NewRequest(http.MethodGet, "/forms", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (cache.Decision, error) {
	return cache.Decision{}, errors.New("redis down")
}

func TestRateLimit(t *testing.T) {
	rule := RateLimitRule{Name: "login", Limit: 2, Window: time.Minute, Message: "Too many login attempts. Try again later."}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RateLimit(cache.NewMemoryRateLimiter(), rule, zap.NewNop())(ok)

	hit := func(remoteAddr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		r.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, "1", hit("10.0.0.1:1000").Header().Get("RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:2000").Code)
	rec := hit("10.0.0.1:3000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), rule.Message)
	assert.Equal(t, "60", rec.Header().Get("RateLimit-Reset"))

	// another client has its own budget
	assert.Equal(t, http.StatusOK, hit("10.0.0.2:1000").Code)

	// limiter failures let requests through
	open := RateLimit(failingLimiter{}, rule, zap.NewNop())(ok)
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
	"go.uber.org/zap"

	"feedbackhub/internal/cache"
	"feedbackhub/internal/config"
	"feedbackhub/internal/service"
	"feedbackhub/internal/transport/rest/handler"
	"feedbackhub/internal/transport/rest/middleware"
	"feedbackhub/internal/transport/ws"

	_ "feedbackhub/internal/docs"
)

const authWindow = 15 * time.Minute

// Auth route limits per client IP and window
var (
	authLimit = middleware.RateLimitRule{
		Name:    "auth",
		Limit:   60,
		Window:  authWindow,
		Message: "Too many authentication attempts. Try again later.",
	}
	loginLimit = middleware.RateLimitRule{
		Name:    "login",
		Limit:   20,
		Window:  authWindow,
		Message: "Too many login attempts. Try again later.",
	}
	registerLimit = middleware.RateLimitRule{
		Name:    "register",
		Limit:   10,
		Window:  authWindow,
		Message: "Too many registration attempts. Try again later.",
	}
)

// Container holds all dependencies for the router
type Container struct {
	CORS             config.CORSConfig
	AuthService      *service.AuthService
	FormService      *service.FormService
	ResponseService  *service.ResponseService
	AnalyticsService *service.AnalyticsService
	EventService     *service.EventService
	RateLimiter      cache.RateLimiter
	WSHub            *ws.Hub
	Health           handler.HealthStatus
	Logger           *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := c.RateLimiter
	if limiter == nil {
		limiter = cache.NewMemoryRateLimiter()
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(middleware.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(middleware.NotFound)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, logger)
	formHandler := handler.NewFormHandler(c.FormService, c.AnalyticsService, logger)
	responseHandler := handler.NewResponseHandler(c.ResponseService, logger)
	eventHandler := handler.NewEventHandler(c.EventService, logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.FormService, c.EventService, logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)
	limit := func(rule middleware.RateLimitRule) mux.MiddlewareFunc {
		return middleware.RateLimit(limiter, rule, logger)
	}

	r.HandleFunc("/", handler.Root).Methods("GET")
	r.HandleFunc("/health", handler.Health(c.Health)).Methods("GET")
	r.HandleFunc("/swagger/doc.json", swaggerDoc(logger)).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.Use(limit(authLimit))
	auth.Handle("/register", limit(registerLimit)(http.HandlerFunc(authHandler.Register))).Methods("POST")
	auth.Handle("/login", limit(loginLimit)(http.HandlerFunc(authHandler.Login))).Methods("POST")
	auth.Handle("/google", limit(loginLimit)(http.HandlerFunc(authHandler.Google))).Methods("POST")

	// Form routes; the literal paths must be registered before /forms/{id}
	required := authMW.Require
	r.Handle("/forms/published", http.HandlerFunc(formHandler.ListPublished)).Methods("GET")
	r.Handle("/forms/generate-from-prompt", required(http.HandlerFunc(formHandler.GenerateFromPrompt))).Methods("POST")
	r.Handle("/forms", required(http.HandlerFunc(formHandler.Create))).Methods("POST")
	r.Handle("/forms", required(http.HandlerFunc(formHandler.List))).Methods("GET")
	r.Handle("/forms/{id}/analytics", required(http.HandlerFunc(formHandler.Analytics))).Methods("GET")
	r.Handle("/forms/{id}/publish", required(http.HandlerFunc(formHandler.Publish))).Methods("POST")
	r.Handle("/forms/{id}", authMW.Optional(http.HandlerFunc(formHandler.Get))).Methods("GET")
	r.Handle("/forms/{id}", required(http.HandlerFunc(formHandler.Update))).Methods("PUT")
	r.Handle("/forms/{id}", required(http.HandlerFunc(formHandler.Delete))).Methods("DELETE")

	// Public submissions
	r.HandleFunc("/responses/{formId}", responseHandler.Submit).Methods("POST")

	// Event routes
	events := r.PathPrefix("/api/events").Subrouter()
	events.Handle("", required(http.HandlerFunc(eventHandler.Create))).Methods("POST")
	events.Handle("/mine", required(http.HandlerFunc(eventHandler.ListMine))).Methods("GET")
	events.HandleFunc("/public/{publicLink}", eventHandler.GetPublic).Methods("GET")
	events.HandleFunc("/public/{publicLink}/feedback", eventHandler.SubmitFeedback).Methods("POST")
	events.Handle("/{id}/analytics", required(http.HandlerFunc(eventHandler.Analytics))).Methods("GET")

	// WebSocket routes (token in query param)
	r.HandleFunc("/ws/forms/{id}", wsHandler.FormWS).Methods("GET")
	r.HandleFunc("/ws/events/{id}", wsHandler.EventWS).Methods("GET")

	// Outer middleware wraps the router so unmatched routes and preflight
	// requests get request ids, CORS headers and access logs too
	var h http.Handler = r
	h = middleware.CORS(c.CORS)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	return h
}

func swaggerDoc(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			logger.Error("read swagger doc", zap.Error(err))
			middleware.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}
}

// Package app wires configuration, storage, caches and services into a
// runnable HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"feedbackhub/internal/cache"
	"feedbackhub/internal/config"
	"feedbackhub/internal/repository"
	"feedbackhub/internal/service"
	"feedbackhub/internal/transport/rest"
	"feedbackhub/internal/transport/rest/handler"
	"feedbackhub/internal/transport/ws"
)

const (
	connectTimeout  = 5 * time.Second
	shutdownTimeout = 30 * time.Second
)

// Stores is the set of repositories the services run on
type Stores struct {
	Forms         repository.FormRepo
	Responses     repository.ResponseRepo
	Users         repository.UserRepo
	Events        repository.EventRepo
	EventFeedback repository.EventFeedbackRepo
}

// MemoryStores builds every repository on one in-memory store
func MemoryStores(mem *repository.Memory) Stores {
	return Stores{
		Forms:         mem.Forms(),
		Responses:     mem.Responses(),
		Users:         mem.Users(),
		Events:        mem.Events(),
		EventFeedback: mem.EventFeedback(),
	}
}

// MongoStores builds every repository on db
func MongoStores(db *mongo.Database) Stores {
	return Stores{
		Forms:         repository.NewFormRepo(db),
		Responses:     repository.NewResponseRepo(db),
		Users:         repository.NewUserRepo(db),
		Events:        repository.NewEventRepo(db),
		EventFeedback: repository.NewEventFeedbackRepo(db),
	}
}

type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Stores  Stores
	Hub     *ws.Hub
	Handler http.Handler

	Storage string // mongo | memory
	Cache   string // redis | disabled

	mongoClient *mongo.Client
	redisClient *redis.Client
}

// ConnectMongo connects and pings MongoDB
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// ConnectRedis accepts a redis:// URL or a bare host:port and pings the server
func ConnectRedis(ctx context.Context, uri string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(uri, "://") {
		parsed, err := redis.ParseURL(uri)
		if err != nil {
			return nil, fmt.Errorf("parse redis uri: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: uri}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// New connects the backends and builds the handler. Unreachable MongoDB or
// Redis servers fall back to the in-memory store and a disabled cache.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Storage: "memory",
		Cache:   "disabled",
	}

	a.Stores = MemoryStores(repository.NewMemory())
	if cfg.Mongo.URI != "" {
		client, err := ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			logger.Warn("mongo unavailable, using in-memory store", zap.Error(err))
		} else {
			db := client.Database(cfg.Mongo.Database)
			if err := repository.EnsureIndexes(ctx, db); err != nil {
				client.Disconnect(context.Background())
				return nil, err
			}
			a.mongoClient = client
			a.Stores = MongoStores(db)
			a.Storage = "mongo"
		}
	}

	analyticsCache := cache.NewNoopAnalyticsCache()
	limiter := cache.NewMemoryRateLimiter()
	if cfg.Redis.URI != "" {
		client, err := ConnectRedis(ctx, cfg.Redis.URI)
		if err != nil {
			logger.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		} else {
			a.redisClient = client
			analyticsCache = cache.NewAnalyticsCache(client, cfg.GetAnalyticsCacheTTL())
			limiter = cache.NewRateLimiter(client)
			a.Cache = "redis"
		}
	}
	logger.Info("backends ready", zap.String("storage", a.Storage), zap.String("cache", a.Cache))

	demoToken := ""
	if cfg.DemoTokenEnabled() {
		demoToken = cfg.Auth.DemoToken
	}

	a.Hub = ws.NewHub(logger.Named("ws"))
	authSvc := service.NewAuthService(a.Stores.Users, service.NewGoogleVerifier(""), service.AuthOptions{
		JWTSecret:      cfg.Auth.JWTSecret,
		TokenTTL:       cfg.GetTokenTTL(),
		DemoToken:      demoToken,
		GoogleClientID: cfg.Auth.GoogleClientID,
	}, logger)

	a.Handler = rest.NewRouter(&rest.Container{
		CORS:             cfg.CORS,
		AuthService:      authSvc,
		FormService:      service.NewFormService(a.Stores.Forms, a.Stores.Responses, analyticsCache, logger),
		ResponseService:  service.NewResponseService(a.Stores.Forms, a.Stores.Responses, analyticsCache, a.Hub, logger),
		AnalyticsService: service.NewAnalyticsService(a.Stores.Forms, a.Stores.Responses, analyticsCache, logger),
		EventService:     service.NewEventService(a.Stores.Events, a.Stores.EventFeedback, a.Hub, logger),
		RateLimiter:      limiter,
		WSHub:            a.Hub,
		Health:           handler.HealthStatus{Storage: a.Storage, Cache: a.Cache},
		Logger:           logger.Named("http"),
	})
	return a, nil
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close stops the websocket hub and disconnects the backends
func (a *App) Close(ctx context.Context) {
	if a.Hub != nil {
		a.Hub.Stop()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.Logger.Warn("disconnect mongo", zap.Error(err))
		}
	}
}

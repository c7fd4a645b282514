package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all feedbackhub settings
type Config struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	Port     string `yaml:"port"`

	Mongo MongoConfig `yaml:"mongo"`
	Redis RedisConfig `yaml:"redis"`
	Auth  AuthConfig  `yaml:"auth"`
	CORS  CORSConfig  `yaml:"cors"`

	// AnalyticsCacheTTL is a duration string, e.g. "5m"
	AnalyticsCacheTTL string `yaml:"analytics_cache_ttl"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"` // empty selects the in-memory store
	Database string `yaml:"database"`
}

type RedisConfig struct {
	URI string `yaml:"uri"` // empty disables the cache
}

type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret"`
	TokenTTL       string `yaml:"token_ttl"`
	DemoToken      string `yaml:"demo_token"`
	GoogleClientID string `yaml:"google_client_id"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Env:      EnvDevelopment,
		LogLevel: "info",
		Port:     "5000",
		Mongo: MongoConfig{
			Database: "feedbackhub",
		},
		Auth: AuthConfig{
			JWTSecret: "dev_secret_change_me",
			TokenTTL:  "168h",
			DemoToken: "demo-token",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		AnalyticsCacheTTL: "5m",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if it
// exists), then a .env file in the working directory, then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// godotenv never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	setString(&c.Env, "APP_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Port, "PORT")
	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Mongo.Database, "MONGO_DB")
	setString(&c.Redis.URI, "REDIS_URI")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Auth.TokenTTL, "JWT_TTL")
	setString(&c.Auth.DemoToken, "DEMO_TOKEN")
	setString(&c.Auth.GoogleClientID, "GOOGLE_CLIENT_ID")
	setString(&c.AnalyticsCacheTTL, "ANALYTICS_CACHE_TTL")
	setList(&c.CORS.AllowedOrigins, "CORS_ALLOWED_ORIGINS")
	setList(&c.CORS.AllowedMethods, "CORS_ALLOWED_METHODS")
	setList(&c.CORS.AllowedHeaders, "CORS_ALLOWED_HEADERS")
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("jwt secret must not be empty")
	}
	if _, err := time.ParseDuration(c.Auth.TokenTTL); err != nil {
		return fmt.Errorf("invalid token ttl %q: %w", c.Auth.TokenTTL, err)
	}
	if _, err := time.ParseDuration(c.AnalyticsCacheTTL); err != nil {
		return fmt.Errorf("invalid analytics cache ttl %q: %w", c.AnalyticsCacheTTL, err)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DemoTokenEnabled reports whether the demo token may be used to authenticate
func (c *Config) DemoTokenEnabled() bool {
	return c.Auth.DemoToken != "" && !c.IsProduction()
}

// GetTokenTTL returns the JWT lifetime as a duration
func (c *Config) GetTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.Auth.TokenTTL)
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return d
}

// GetAnalyticsCacheTTL returns the analytics cache TTL as a duration
func (c *Config) GetAnalyticsCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.AnalyticsCacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

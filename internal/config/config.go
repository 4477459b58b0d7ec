package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

type Config struct {
	// Server config
	Server ServerConfig

	// database config, empty URL means in-memory stores
	Database DatabaseConfig

	// CSRF and cookies
	Security SecurityConfig

	// sentiment backend
	Analyzer AnalyzerConfig

	// valkey result cache
	Cache CacheConfig

	// upload and history limits
	Limits LimitsConfig

	LogLevel string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address        string
	Environment    string // development, staging, production
	BaseURL        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	CSRFSecret        string
	TrustedOrigins    []string
	VisitorCookieName string
	VisitorCookieAge  time.Duration
	SecureCookies     bool // true in production
}

const (
	BackendVader  = "vader"
	BackendRemote = "remote"
)

// AnalyzerConfig selects and tunes the sentiment backend.
type AnalyzerConfig struct {
	Backend          string
	URL              string
	Timeout          time.Duration
	NeutralThreshold float64
	Workers          int
}

// CacheConfig holds the optional Valkey cache settings.
type CacheConfig struct {
	Address  string
	Password string
	TLS      bool
	TTL      time.Duration
}

// Enabled reports whether a cache address is configured.
func (c CacheConfig) Enabled() bool {
	return c.Address != ""
}

// LimitsConfig holds upload and listing limits.
type LimitsConfig struct {
	MaxCSVRows   int
	HistoryLimit int
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func Load() (*Config, error) {
	// .env is optional, deployments set real env vars
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []error

	cfg.Server = ServerConfig{
		Address:        getEnvOrDefault("SERVER_ADDRESS", ":8080"),
		Environment:    getEnvOrDefault("APP_ENV", "development"),
		BaseURL:        getEnvOrDefault("BASE_URL", "http://localhost:8080"),
		ReadTimeout:    getDuration("SERVER_READ_TIMEOUT", 15*time.Second, &errs),
		WriteTimeout:   getDuration("SERVER_WRITE_TIMEOUT", 60*time.Second, &errs),
		IdleTimeout:    getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second, &errs),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second, &errs),
	}

	cfg.Database = DatabaseConfig{
		URL: os.Getenv("DATABASE_URL"),
	}

	cfg.Security = SecurityConfig{
		CSRFSecret:        os.Getenv("CSRF_SECRET"),
		TrustedOrigins:    trustedOrigins(cfg.Server.BaseURL, getEnvOrDefault("CSRF_TRUSTED_ORIGINS", ""), &errs),
		VisitorCookieName: getEnvOrDefault("VISITOR_COOKIE_NAME", "sentiment_visitor"),
		VisitorCookieAge:  getDuration("VISITOR_COOKIE_AGE", 365*24*time.Hour, &errs),
		SecureCookies:     cfg.IsProduction(),
	}

	cfg.Analyzer = AnalyzerConfig{
		Backend:          strings.ToLower(getEnvOrDefault("ANALYZER_BACKEND", BackendVader)),
		URL:              os.Getenv("ANALYZER_URL"),
		Timeout:          getDuration("ANALYZER_TIMEOUT", 30*time.Second, &errs),
		NeutralThreshold: getFloat("NEUTRAL_THRESHOLD", 0.7, &errs),
		Workers:          getInt("ANALYZER_WORKERS", 0, &errs),
	}

	cfg.Cache = CacheConfig{
		Address:  os.Getenv("VALKEY_ADDRESS"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		TLS:      getEnvOrDefault("VALKEY_TLS", "false") == "true",
		TTL:      getDuration("CACHE_TTL", 24*time.Hour, &errs),
	}

	cfg.Limits = LimitsConfig{
		MaxCSVRows:   getInt("MAX_CSV_ROWS", 5000, &errs),
		HistoryLimit: getInt("HISTORY_LIMIT", 50, &errs),
	}

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration parsing failed:\n%w", errors.Join(errs...))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present and valid.
func (c *Config) validate() error {
	var errs []error

	if c.Security.CSRFSecret == "" {
		errs = append(errs, errors.New("CSRF_SECRET is required"))
	} else if len(c.Security.CSRFSecret) < 32 {
		errs = append(errs, errors.New("CSRF_SECRET must be at least 32 characters"))
	}

	switch c.Analyzer.Backend {
	case BackendVader:
	case BackendRemote:
		if c.Analyzer.URL == "" {
			errs = append(errs, errors.New("ANALYZER_URL is required when ANALYZER_BACKEND=remote"))
		}
	default:
		errs = append(errs, fmt.Errorf("ANALYZER_BACKEND must be one of: vader, remote (got: %s)", c.Analyzer.Backend))
	}

	if c.Analyzer.NeutralThreshold < 0.5 || c.Analyzer.NeutralThreshold > 1 {
		errs = append(errs, errors.New("NEUTRAL_THRESHOLD must be between 0.5 and 1"))
	}

	if c.Analyzer.Workers < 0 {
		errs = append(errs, errors.New("ANALYZER_WORKERS must not be negative"))
	}

	if c.Limits.MaxCSVRows <= 0 {
		errs = append(errs, errors.New("MAX_CSV_ROWS must be positive"))
	}

	if c.Limits.HistoryLimit <= 0 {
		errs = append(errs, errors.New("HISTORY_LIMIT must be positive"))
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.Server.Environment] {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: development, staging, production (got: %s)", c.Server.Environment))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}

	return nil
}

// trustedOrigins lists the hosts allowed as CSRF origins: the public host of
// BASE_URL followed by the extra ones from CSRF_TRUSTED_ORIGINS.
func trustedOrigins(baseURL, extra string, errs *[]error) []string {
	var origins []string
	u, err := url.Parse(baseURL)
	switch {
	case err != nil:
		*errs = append(*errs, fmt.Errorf("invalid BASE_URL: %w", err))
	case u.Host == "":
		*errs = append(*errs, fmt.Errorf("invalid BASE_URL: %q has no host", baseURL))
	default:
		origins = append(origins, u.Host)
	}
	return lo.Uniq(append(origins, strings.Fields(extra)...))
}

// getEnvOrDefault returns the .env value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return n
}

func getFloat(key string, defaultValue float64, errs *[]error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return f
}

// MustLoad is like Load but panics on error.
// Used in main() where its required to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

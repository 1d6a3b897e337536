package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/warden/pkg/auth"
	"github.com/platinummonkey/warden/pkg/directory"
	"github.com/platinummonkey/warden/pkg/observability"
)

// Storage backend types
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Storage       StorageConfig
	Auth          AuthConfig
	Observability ObservabilityConfig

	// RouteGuards maps "METHOD /resource-path" (relative to the API prefix,
	// e.g. "POST /users" or "DELETE /roles/{id}") to the roles/privileges
	// required to call it. Routes without an entry only require a valid
	// token.
	RouteGuards map[string]auth.Requirement

	// SeedDemo creates the demo tenant/org/role/user hierarchy at startup
	SeedDemo bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the document store backend
type StorageConfig struct {
	Type string // memory or postgres

	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int
	PostgresTimeout  time.Duration
}

// AuthConfig holds JWT signing configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// ObservabilityConfig holds logging, metrics, and CORS settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
	CORSOrigins    []string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	guards, err := loadRouteGuards()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("WARDEN_HOST", "0.0.0.0"),
			Port:            getEnv("WARDEN_PORT", "8080"),
			ReadTimeout:     getEnvDuration("WARDEN_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("WARDEN_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("WARDEN_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("WARDEN_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Type:             getEnv("WARDEN_STORAGE_TYPE", StorageMemory),
			PostgresURL:      getEnv("WARDEN_POSTGRES_URL", ""),
			PostgresMaxConns: getEnvInt("WARDEN_POSTGRES_MAX_CONNS", 25),
			PostgresMinConns: getEnvInt("WARDEN_POSTGRES_MIN_CONNS", 5),
			PostgresTimeout:  getEnvDuration("WARDEN_POSTGRES_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("WARDEN_JWT_SECRET", ""),
			TokenTTL:  getEnvDuration("WARDEN_TOKEN_TTL", auth.DefaultTokenTTL),
		},
		Observability: ObservabilityConfig{
			LogLevel:       parseLogLevel(getEnv("WARDEN_LOG_LEVEL", "info")),
			MetricsEnabled: getEnvBool("WARDEN_METRICS_ENABLED", true),
			CORSOrigins:    splitList(getEnv("WARDEN_CORS_ORIGINS", "*")),
		},
		RouteGuards: guards,
		SeedDemo:    getEnvBool("WARDEN_SEED_DEMO", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultRouteGuards returns the built-in guard table: reads require only
// a valid token, writes require the Admin role.
func DefaultRouteGuards() map[string]auth.Requirement {
	guards := make(map[string]auth.Requirement)
	adminOnly := auth.Requirement{Roles: []string{"Admin"}}
	for _, resource := range directory.Resources() {
		guards["POST /"+resource] = adminOnly
		guards["PUT /"+resource+"/{id}"] = adminOnly
		guards["DELETE /"+resource+"/{id}"] = adminOnly
	}
	return guards
}

// loadRouteGuards merges the WARDEN_ROUTE_GUARDS JSON override over the
// defaults. The JSON shape is {"POST /users": {"roles": ["Admin"],
// "privileges": ["manage_users"]}}; an entry with empty lists clears the
// default for that route.
func loadRouteGuards() (map[string]auth.Requirement, error) {
	guards := DefaultRouteGuards()

	raw := os.Getenv("WARDEN_ROUTE_GUARDS")
	if raw == "" {
		return guards, nil
	}

	var override map[string]auth.Requirement
	if err := json.Unmarshal([]byte(raw), &override); err != nil {
		return nil, fmt.Errorf("invalid WARDEN_ROUTE_GUARDS: %w", err)
	}
	for route, req := range override {
		if req.IsZero() {
			delete(guards, route)
			continue
		}
		guards[route] = req
	}
	return guards, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("WARDEN_JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("WARDEN_POSTGRES_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("invalid storage type: %s (must be memory or postgres)", c.Storage.Type)
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// splitList parses a comma-separated list, trimming whitespace
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default.
// Accepts Go duration strings ("30s") and bare integers, read as seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

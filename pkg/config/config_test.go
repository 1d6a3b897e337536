package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/warden/pkg/observability"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("WARDEN_JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, []string{"*"}, cfg.Observability.CORSOrigins)
	assert.False(t, cfg.SeedDemo)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("WARDEN_JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WARDEN_JWT_SECRET")
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("WARDEN_JWT_SECRET", "test-secret")
	t.Setenv("WARDEN_STORAGE_TYPE", "postgres")
	t.Setenv("WARDEN_POSTGRES_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WARDEN_POSTGRES_URL")
}

func TestLoadConfig_InvalidStorageType(t *testing.T) {
	t.Setenv("WARDEN_JWT_SECRET", "test-secret")
	t.Setenv("WARDEN_STORAGE_TYPE", "cassandra")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage type")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("WARDEN_JWT_SECRET", "test-secret")
	t.Setenv("WARDEN_PORT", "9999")
	t.Setenv("WARDEN_TOKEN_TTL", "120")
	t.Setenv("WARDEN_READ_TIMEOUT", "5s")
	t.Setenv("WARDEN_LOG_LEVEL", "debug")
	t.Setenv("WARDEN_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("WARDEN_SEED_DEMO", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 120*time.Second, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Observability.CORSOrigins)
	assert.True(t, cfg.SeedDemo)
}

func TestDefaultRouteGuards(t *testing.T) {
	guards := DefaultRouteGuards()

	// Writes demand Admin, reads stay token-only (no entry).
	assert.Equal(t, []string{"Admin"}, guards["POST /users"].Roles)
	assert.Equal(t, []string{"Admin"}, guards["DELETE /legal-entities/{id}"].Roles)
	_, hasListGuard := guards["GET /users"]
	assert.False(t, hasListGuard)
}

func TestLoadConfig_RouteGuardOverride(t *testing.T) {
	t.Setenv("WARDEN_JWT_SECRET", "test-secret")
	t.Setenv("WARDEN_ROUTE_GUARDS", `{
		"POST /users": {"privileges": ["manage_users"]},
		"DELETE /users/{id}": {}
	}`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"manage_users"}, cfg.RouteGuards["POST /users"].Privileges)
	assert.Empty(t, cfg.RouteGuards["POST /users"].Roles)

	// Empty override clears the default guard entirely.
	_, present := cfg.RouteGuards["DELETE /users/{id}"]
	assert.False(t, present)

	// Untouched defaults survive.
	assert.Equal(t, []string{"Admin"}, cfg.RouteGuards["POST /roles"].Roles)
}

func TestLoadConfig_InvalidRouteGuardJSON(t *testing.T) {
	t.Setenv("WARDEN_JWT_SECRET", "test-secret")
	t.Setenv("WARDEN_ROUTE_GUARDS", "{not json")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WARDEN_ROUTE_GUARDS")
}

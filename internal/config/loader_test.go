package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/company-employees-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func clearSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_PASSWORD", "")
	t.Setenv("APP_POSTGRES_DB", "")
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	// Minimal YAML; secrets will come from ENV
	yaml := `
app:
  name: company-employees-service
  version: 0.1.0
  env: test
  port: 18080

logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5
  min_conns: 1
  max_conn_lifetime: 60
  max_conn_idle_time: 30
  health_check_period: 15

paging:
  default_page_size: 5
  max_page_size: 20
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "stdout", cfg.Logger.OutputTarget)

	assert.Equal(t, uint(5), cfg.Paging.Limits().DefaultPageSize)
	assert.Equal(t, uint(20), cfg.Paging.Limits().MaxPageSize)
	assert.False(t, cfg.Query.Strict)
	assert.Equal(t, config.DefaultHateoasMediaType, cfg.Hateoas.MediaType)
	assert.Contains(t, cfg.CORS.ExposeHeaders, "X-Pagination")
}

func TestConfigLoad_MissingRequiredEnvFails(t *testing.T) {
	yaml := `
app:
  port: 18080
postgres:
  host: localhost
`
	path := writeTempConfig(t, yaml)
	clearSecrets(t)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_POSTGRES_PASSWORD")
}

func TestConfigLoad_MemoryDriverNeedsNoSecrets(t *testing.T) {
	yaml := `
storage:
  driver: memory
query:
  strict: true
`
	path := writeTempConfig(t, yaml)
	clearSecrets(t)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.True(t, cfg.Query.Strict)
	assert.Equal(t, uint(10), cfg.Paging.DefaultPageSize)
	assert.Equal(t, uint(50), cfg.Paging.MaxPageSize)
}

func TestConfigLoad_EnvOverridesYAML(t *testing.T) {
	path := writeTempConfig(t, "storage:\n  driver: memory\napp:\n  port: 9000\n")
	clearSecrets(t)
	t.Setenv("APP_APP_PORT", "9100")
	t.Setenv("APP_QUERY_STRICT", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.App.Port)
	assert.True(t, cfg.Query.Strict)
}

func TestConfigLoad_InvalidValuesFail(t *testing.T) {
	cases := map[string]string{
		"unknown_driver":    "storage:\n  driver: mongo\n",
		"max_below_default": "storage:\n  driver: memory\npaging:\n  default_page_size: 20\n  max_page_size: 5\n",
		"missing_file":      "",
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			clearSecrets(t)
			path := filepath.Join(t.TempDir(), "absent.yaml")
			if yaml != "" {
				path = writeTempConfig(t, yaml)
			}
			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

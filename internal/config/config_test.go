package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func isolateDotEnv(t *testing.T) {
	t.Helper()
	prev := DotEnvPath
	DotEnvPath = filepath.Join(t.TempDir(), ".env")
	t.Cleanup(func() { DotEnvPath = prev })
}

func TestLoadDefaultsWhenDefaultFileMissing(t *testing.T) {
	isolateDotEnv(t)
	prevWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.True(t, cfg.ShouldAutoMigrate())
	assert.Equal(t, 15*time.Second, cfg.CacheTTL())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Contains(t, cfg.DSN, "root:password@tcp(127.0.0.1:3306)/teamboard?")
	assert.Contains(t, cfg.DSN, "parseTime=True")
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolateDotEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	isolateDotEnv(t)
	path := writeConfig(t, `
port: 8080
env: production
allowed_origins: ["*.example.com", " "]
database:
  driver: postgresql
  host: db
  user: team
  password: secret
  name: board
  auto_migrate: false
redis:
  enable: true
  host: cache
  db: 2
rate_limit:
  enable: true
  max: 10
metrics:
  path: prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, []string{"*.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.ShouldAutoMigrate())
	assert.Equal(t, "host=db port=5432 user=team dbname=board sslmode=disable password=secret", cfg.DSN)
	assert.True(t, cfg.Redis.Enable)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, 10, cfg.RateLimit.Max)
	assert.Equal(t, "/prom", cfg.Metrics.Path)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolateDotEnv(t)
	path := writeConfig(t, "port: 8080\nlisten: 1\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	isolateDotEnv(t)

	cases := map[string]string{
		"port":     "port: 70000\n",
		"driver":   "database:\n  driver: oracle\n",
		"pool":     "database:\n  max_open_conns: -1\n",
		"redis db": "redis:\n  db: -1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	isolateDotEnv(t)
	t.Setenv("TEAMBOARD_DATABASE_DRIVER", "sqlite")
	t.Setenv("TEAMBOARD_DATABASE_PATH", "/tmp/board.db")
	t.Setenv("TEAMBOARD_REDIS_URL", "cache:6380/1")
	t.Setenv("TEAMBOARD_ALLOWED_ORIGINS", "a.test,b.test")
	t.Setenv("PORT", "9090")

	cfg, err := Load(writeConfig(t, "port: 8080\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/board.db?_foreign_keys=on", cfg.DSN)
	assert.Equal(t, "redis://cache:6380/1", cfg.RedisURL)
	assert.Equal(t, []string{"a.test", "b.test"}, cfg.AllowedOrigins)
}

func TestPrefixedPortWinsOverBarePort(t *testing.T) {
	isolateDotEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TEAMBOARD_PORT", "7070")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
}

func TestDotEnvFile(t *testing.T) {
	isolateDotEnv(t)
	require.NoError(t, os.WriteFile(DotEnvPath, []byte("TEAMBOARD_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TEAMBOARD_LOG_LEVEL") })

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestResolveRuntimePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "logs")
	assert.Equal(t, abs, ResolveRuntimePath(abs, "ignored"))
	assert.Equal(t, filepath.Join(WorkingDir(), "logs"), ResolveRuntimePath("", "logs"))
}

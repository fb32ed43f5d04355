package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every override so host settings cannot leak into a test.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "REQUEST_TIMEOUT", "DB_DRIVER", "DATABASE_URL", "DB_HOST", "DB_PORT",
		"DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL", "ALLOWED_ORIGINS", "RATE_LIMIT_WINDOW_MS",
		"RATE_LIMIT_MAX_REQUESTS", "UPLOAD_PATH", "MAX_FILE_SIZE", "MAX_FILES_PER_REQUEST",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3004, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, int64(10485760), cfg.File.MaxFileSize)
	assert.Equal(t, 5, cfg.File.MaxFilesPerRequest)
	assert.True(t, cfg.IsAllowedMimeType("image/png"))
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 8080
  mode: release
database:
  driver: mysql
  host: db.internal
  port: 3306
  user: signage
  password: secret
  dbname: works
file:
  upload_path: /srv/uploads
  allowed_mime_types: [image/png]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "60000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.IsRelease())
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "/srv/uploads", cfg.File.UploadPath)
	assert.Equal(t, "signage:secret@tcp(db.internal:3306)/works?charset=utf8mb4&parseTime=True&loc=Local", cfg.GetDSN())

	assert.True(t, cfg.IsAllowedMimeType("IMAGE/PNG; charset=binary"))
	assert.False(t, cfg.IsAllowedMimeType("application/pdf"))
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [1, 2"), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "localhost", Port: 5432, User: "postgres", DBName: "signage_works", SSLMode: "disable"}
	assert.Contains(t, d.DSN(), "host=localhost port=5432")
	assert.Contains(t, d.DSN(), "sslmode=disable")

	d.URL = "postgres://u:p@host/db"
	assert.Equal(t, "postgres://u:p@host/db", d.DSN())

	assert.Equal(t, "signage.db", DatabaseConfig{Driver: "sqlite", DBName: "signage.db"}.DSN())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("AYYA_PORT", "6001")
	t.Setenv("AYYA_STORE_DRIVER", "postgres")
	t.Setenv("AYYA_DB_DSN", "postgres://localhost/ayya")
	t.Setenv("AYYA_EXPORT_IMAGE_HOSTS", "cdn.example.com|images.example.com")
	t.Setenv("AYYA_EXPORT_FETCH_TIMEOUT", "3s")

	cfg := Load()
	assert.Equal(t, 6001, cfg.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "created_at", cfg.Store.CreatedColumn)
	assert.Equal(t, "id", cfg.Store.OrderKey)
	assert.Equal(t, 200, cfg.Export.ImageCap)
	assert.Equal(t, 60, cfg.Export.ImageSize)
	assert.Equal(t, 3*time.Second, cfg.Export.FetchTimeout)
	assert.Equal(t, []string{"cdn.example.com", "images.example.com"}, cfg.Export.ImageHosts)
	assert.Equal(t, "ayya_admin_auth", cfg.Admin.Cookie)
	assert.True(t, filepath.IsAbs(cfg.Root))
	assert.NoError(t, cfg.Validate())
}

func TestLoadFallback(t *testing.T) {
	t.Setenv("AYYA_SUPABASE_URL", "")
	t.Setenv("AYYA_SUPABASE_SERVICE_KEY", "")
	t.Setenv("AYYA_ADMIN_SECRET", "")
	t.Setenv("ADMIN_SECRET", "")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")

	cfg := Load()
	assert.Equal(t, "https://project.supabase.co", cfg.Store.SupabaseURL)
	assert.Equal(t, "service-key", cfg.Store.SupabaseKey)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.Equal(t, "service-key", cfg.Admin.Secret)

	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")
	cfg = Load()
	assert.Equal(t, "dev-secret", cfg.Admin.Secret)
}

func TestLoadFrom(t *testing.T) {
	t.Setenv("AYYA_PORT", "")
	dir := t.TempDir()
	envfile := filepath.Join(dir, ".env")
	err := os.WriteFile(envfile, []byte("AYYA_PORT=7007\nAYYA_ENV=development\n"), 0644)
	require.NoError(t, err)

	cfg := LoadFrom(envfile)
	assert.Equal(t, 7007, cfg.Port)
	assert.Equal(t, "development", cfg.Mode)

	os.Unsetenv("AYYA_ENV")
}

func TestValidate(t *testing.T) {
	cfg := Config{Store: Store{Driver: "supabase"}}
	assert.Error(t, cfg.Validate())

	cfg.Store.SupabaseURL = "https://project.supabase.co"
	cfg.Store.SupabaseKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg.Store.Driver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg = Config{Store: Store{Driver: "file", File: "/tmp/bundle.json"}, TimeZone: "Nowhere/Unknown"}
	assert.Error(t, cfg.Validate())
}

func TestLocation(t *testing.T) {
	loc, err := Config{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = Config{TimeZone: "Asia/Kolkata"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestOpenLog(t *testing.T) {
	defer func() { Conf.Log = ""; ReloadLog() }()

	Conf.Log = filepath.Join(t.TempDir(), "logs", "ayya.log")
	ReloadLog()
	assert.NotNil(t, LogOutput)
	assert.DirExists(t, filepath.Dir(Conf.Log))
}

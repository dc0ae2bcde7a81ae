package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabsrs/internal/database"
)

// chdir moves into an empty directory so no stray .env or srs.yaml is picked up
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, database.TypeSQLite, cfg.DBType)
	assert.Equal(t, database.DefaultSQLiteDB, cfg.DatabaseURL)
	assert.Equal(t, 15, cfg.BatchSize)
	assert.True(t, cfg.RealtimeDecay)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultNotificationStartHour, cfg.NotificationStartHour)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadLayers(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "srs.yaml"), []byte(
		"db_type: postgres\n"+
			"database_url: postgres://srs@localhost/srs\n"+
			"batch_size: 20\n"+
			"log_level: debug\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"TELEGRAM_BOT_TOKEN=from-dotenv\n"+
			"SRS_BATCH_SIZE=12\n"), 0o644))
	t.Setenv("SRS_REALTIME_DECAY", "false")
	t.Setenv("NOTIFICATION_END_HOUR", "20")
	// .env never overrides the real environment
	t.Setenv("SRS_BATCH_SIZE", "9")
	t.Cleanup(func() { os.Unsetenv("TELEGRAM_BOT_TOKEN") })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, "postgres://srs@localhost/srs", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-dotenv", cfg.TelegramToken)
	assert.Equal(t, 9, cfg.BatchSize)
	assert.False(t, cfg.RealtimeDecay)
	assert.Equal(t, 20, cfg.NotificationEndHour)
	assert.Equal(t, database.Config{Type: "postgres", URL: "postgres://srs@localhost/srs"}, cfg.Database())
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	dir := chdir(t)
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown database", func(c *Config) { c.DBType = "oracle" }},
		{"hour out of range", func(c *Config) { c.NotificationEndHour = 24 }},
		{"empty window", func(c *Config) { c.NotificationStartHour, c.NotificationEndHour = 20, 8 }},
		{"negative batch", func(c *Config) { c.BatchSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{DBType: "sqlite", NotificationStartHour: 8, NotificationEndHour: 22, BatchSize: 15}
			require.NoError(t, cfg.Validate())
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/teamspend/internal/config"
	"github.com/MrJamesThe3rd/teamspend/internal/database"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, config.BackendPostgres, cfg.DB.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Classifier.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "postgres://postgres:@localhost:5432/teamspend?sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, database.Pool{MaxOpenConns: 25, MaxIdleConns: 5, ConnMaxLifetime: 5 * time.Minute}, cfg.Pool())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_BACKEND", "memory")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("BREVO_TIMEOUT", "3s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, config.BackendMemory, cfg.DB.Backend)
	assert.Equal(t, 3*time.Second, cfg.Email.Timeout)
	assert.Contains(t, cfg.ConnectionString(), "postgres:p%40ss@")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "Backend", key: "DB_BACKEND", val: "sqlite"},
		{name: "Port", key: "PORT", val: "70000"},
		{name: "LogLevel", key: "LOG_LEVEL", val: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

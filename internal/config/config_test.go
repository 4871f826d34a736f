// internal/config/config_test.go
package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.Provision.AutoCreateTasks)
	assert.Equal(t, 10.0, cfg.Provision.DefaultBufferPercent)
	assert.True(t, cfg.JWT.RefreshTokenRotation)
}

func TestLoadRespectsEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("PROVISION_AUTO_TASKS", "false")
	t.Setenv("PROVISION_DEFAULT_BUFFER", "25")
	t.Setenv("JWT_REFRESH_ROTATION", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Provision.AutoCreateTasks)
	assert.Equal(t, 25.0, cfg.Provision.DefaultBufferPercent)
	assert.False(t, cfg.JWT.RefreshTokenRotation)
}

func TestValidateRejectsBadBuffer(t *testing.T) {
	t.Setenv("PROVISION_DEFAULT_BUFFER", "150")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROVISION_DEFAULT_BUFFER")
}

func TestValidateRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestDefaultProvisionConfigKeysNormalized(t *testing.T) {
	cfg := DefaultProvisionConfig()

	for key := range cfg.CategoryBuffers {
		assert.Equal(t, strings.ToLower(strings.TrimSpace(key)), key)
	}
	for key := range cfg.BaseQuantities {
		assert.Equal(t, strings.ToLower(strings.TrimSpace(key)), key)
	}
	for key := range cfg.ItemOverrides {
		assert.Equal(t, strings.ToLower(strings.TrimSpace(key)), key)
	}

	// Every category with a base quantity has a buffer and a task estimate
	for key := range cfg.BaseQuantities {
		assert.Contains(t, cfg.CategoryBuffers, key)
		assert.Contains(t, cfg.TaskEstimateMinutes, key)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5432"
	cfg.Database.User = "kitchen"
	cfg.Database.Password = "secret"
	cfg.Database.Name = "catering"
	cfg.Database.SSLMode = "require"

	dsn := cfg.GetDatabaseDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=catering")
	assert.Contains(t, dsn, "sslmode=require")
}

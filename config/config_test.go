package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvOverride(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("GATE_SERVER_PORT", "8081")
	t.Setenv("GATE_DB_QUERY_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 5, cfg.Database.ConnectRetries)
	assert.Equal(t, "@hourly", cfg.Jobs.PurgeCron)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:    ServerConfig{Port: 3000},
		Database:  DatabaseConfig{QueryTimeout: time.Second, ConnectRetries: 1},
		RateLimit: RateLimitConfig{DeviceLimit: 10, DeviceWindow: time.Minute},
	}
	assert.NoError(t, valid.Validate())

	badPort := valid
	badPort.Server.Port = 70000
	assert.Error(t, badPort.Validate())

	noTimeout := valid
	noTimeout.Database.QueryTimeout = 0
	assert.Error(t, noTimeout.Validate())

	noRetry := valid
	noRetry.Database.ConnectRetries = 0
	assert.Error(t, noRetry.Validate())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TASKHUB_DATABASE_URL", "postgres://app@localhost:5432/taskhub")
	t.Setenv("TASKHUB_AUTH_TOKEN_SECRET", testSecret)
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TASKHUB_SERVER_PORT", "9090")
	t.Setenv("TASKHUB_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://app@localhost:5432/taskhub", cfg.Database.URL)
	assert.Equal(t, testSecret, cfg.Auth.TokenSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 0, cfg.Auth.BcryptCost)
}

func TestLoadFile(t *testing.T) {
	t.Run("explicit config file", func(t *testing.T) {
		t.Setenv("TASKHUB_AUTH_TOKEN_SECRET", testSecret)

		path := filepath.Join(t.TempDir(), "taskhub.yaml")
		contents := "server:\n  port: 7070\ndatabase:\n  url: postgres://app@localhost:5432/taskhub\n"
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "postgres://app@localhost:5432/taskhub", cfg.Database.URL)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		setRequiredEnv(t)

		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("TASKHUB_AUTH_TOKEN_SECRET", testSecret)

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("short token secret", func(t *testing.T) {
		t.Setenv("TASKHUB_DATABASE_URL", "postgres://app@localhost:5432/taskhub")
		t.Setenv("TASKHUB_AUTH_TOKEN_SECRET", "short")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TASKHUB_SERVER_LOG_LEVEL", "loud")

		_, err := Load()
		assert.Error(t, err)
	})
}

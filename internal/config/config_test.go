package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "localmart")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_PORT", "")
	t.Setenv("APP_ENV", "test")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "localmart", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	// Port falls back to the default when unset.
	assert.Equal(t, "5000", cfg.AppPort)
}

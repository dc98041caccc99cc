package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "5175", cfg.Port)
		assert.Equal(t, StoreMemory, cfg.StoreBackend)
		assert.Equal(t, 14, cfg.Auth.ExpireDays)
		assert.Equal(t, "battleship_token", cfg.Auth.CookieName)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "8081")
		t.Setenv("STORE_BACKEND", "redis")
		t.Setenv("REDIS_ADDR", "cache:6379")
		t.Setenv("DAILY_SALT", "pepper")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "8081", cfg.Port)
		assert.Equal(t, StoreRedis, cfg.StoreBackend)
		assert.Equal(t, "cache:6379", cfg.Redis.Addr)
		assert.Equal(t, "pepper", cfg.Daily.Salt)
	})

	t.Run("Unknown store backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "etcd")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "STORE_BACKEND")
	})

	t.Run("Non-positive token lifetime", func(t *testing.T) {
		t.Setenv("JWT_EXPIRES_DAYS", "0")

		_, err := Load()

		assert.Error(t, err)
	})
}

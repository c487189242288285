package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults for development", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		t.Setenv("DB_DRIVER", "")
		t.Setenv("DB_DSN", "")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("TIMEZONE", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.AppEnv)
		assert.Equal(t, "sqlite", cfg.DBDriver)
		assert.Equal(t, "ordermenu.db", cfg.DBDSN)
		assert.Equal(t, devJWTSecret, cfg.JWTSecret)
		assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
		assert.Equal(t, 120, cfg.KitchenRatePerMinute)
		assert.Equal(t, 60, cfg.OrderStatusRatePerMinute)
	})

	t.Run("Values from env", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("DB_DRIVER", "mysql")
		t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/ordermenu?parseTime=true")
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("JWT_TTL_HOURS", "8")
		t.Setenv("TIMEZONE", "UTC")
		t.Setenv("KITCHEN_RATE_PER_MINUTE", "30")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "mysql", cfg.DBDriver)
		assert.Equal(t, 8*time.Hour, cfg.JWTTTL)
		assert.Equal(t, "UTC", cfg.Location.String())
		assert.Equal(t, 30, cfg.KitchenRatePerMinute)
	})

	t.Run("Production requires a secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DB_DSN", "host=localhost")

		_, err := Load()
		assert.Error(t, err)
	})
}

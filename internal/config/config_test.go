package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.ConfirmTransfers)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "k")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("IS_PROD", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.IsProd)
	assert.Equal(t, "/tmp/x.db", cfg.DSN())
}

func TestDSN(t *testing.T) {
	c := &Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d"}
	assert.Equal(t, "u:p@tcp(h:1)/d?parseTime=true", c.DSN())

	c.DBDriver = "postgres"
	assert.Equal(t, "host=h user=u password=p dbname=d port=1 sslmode=disable", c.DSN())
}

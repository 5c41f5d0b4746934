package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "dev-secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "token", cfg.Auth.CookieName)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, "beside", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Minute, cfg.Reset.OTPTTL)
	assert.Equal(t, int64(5<<20), cfg.Media.MaxBytes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "dev-secret",
		"JWT_TTL":            "15m",
		"REDIS_DB":           "2",
		"COOKIE_SECURE":      "false",
		"CORS_ALLOW_ORIGINS": "https://a.example,https://b.example",
		"ADMIN_USERNAMES":    "root,ops",
	}))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, []string{"root", "ops"}, cfg.Auth.AdminUsernames)
}

func TestLoadWith_RequiresSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadWith_ProductionSecretLength(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":        "production",
		"JWT_SECRET": "short",
	}))
	require.Error(t, err)

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":        "production",
		"JWT_SECRET": strings.Repeat("k", 32),
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoadWith_BadDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "dev-secret",
		"JWT_TTL":    "forever",
	}))
	assert.Error(t, err)
}

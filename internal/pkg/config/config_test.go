package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "books_db", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":                      "s3cret",
		"JWT_ACCESS_TOKEN_EXPIRE_MINUTES": "5",
		"ENV":                             "production",
		"SEED_ON_START":                   "true",
		"MONGO_DB":                        "library",
		"REDIS_PASSWORD":                  "pw",
		"IDEMPOTENCY_TTL":                 "90m",
	}))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, "library", cfg.Mongo.Database)
	assert.Equal(t, "pw", cfg.Redis.Password)
	assert.Equal(t, 90*time.Minute, cfg.Redis.IdempotencyTTL)
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveExpiry(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":                      "s3cret",
		"JWT_ACCESS_TOKEN_EXPIRE_MINUTES": "0",
	}))
	assert.Error(t, err)
}

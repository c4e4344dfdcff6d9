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
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, BackendMongo, cfg.RevocationBackend)
	assert.Equal(t, "senbank", cfg.Mongo.Database)
	assert.Equal(t, 4, cfg.AuditWorkers)
	assert.Empty(t, cfg.Redis.Addr)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoad_RedisBackend(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"REVOCATION_BACKEND": "Redis",
	}))
	assert.ErrorContains(t, err, "REDIS_ADDR")

	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"REVOCATION_BACKEND": "redis",
		"REDIS_ADDR":         "localhost:6379",
		"TOKEN_TTL":          "30m",
		"ENV":                "production",
	}))
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.RevocationBackend)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_UnknownBackend(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"REVOCATION_BACKEND": "memcached",
	}))
	assert.ErrorContains(t, err, "memcached")
}

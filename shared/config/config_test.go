package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("PROJECT_CACHE_TTL_SECONDS", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("APP_ENV", "")

	cfg := LoadConfig()

	assert.Equal(t, 5*time.Minute, cfg.ProjectCacheTTL)
	assert.Equal(t, "", cfg.RedisAddr())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("PROJECT_CACHE_TTL_SECONDS", "30")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "not-a-number")
	t.Setenv("APP_ENV", "production")

	cfg := LoadConfig()

	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
	assert.Equal(t, 30*time.Second, cfg.ProjectCacheTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 100, cfg.RateLimitMaxRequests)
	assert.True(t, cfg.IsProduction())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DatabaseDSN())
}

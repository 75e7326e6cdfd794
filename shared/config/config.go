package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Environment string
	Port        string
	ServiceName string
	Version     string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session tokens
	JWTSecret      string
	JWTExpireHours int
	SessionCookie  string

	// Redis (optional, in-memory cache when RedisHost is empty)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Project list cache
	ProjectCacheTTL time.Duration

	// Rate Limiting
	RateLimitMaxRequests          int
	RateLimitTimeWindowSeconds    int
	RateLimitBlockDurationMinutes int

	// CORS / WebSocket origins
	FrontendURL    string
	AllowedOrigins []string

	// MinIO (optional, asset upload disabled when MinIOServerURL is empty)
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string
	PublicSiteURL     string
	AssetMaxFileSize  int64
}

// LoadConfig loads configuration from the first .env file found and the process environment.
func LoadConfig() *Config {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			slog.Info("Environment loaded", slog.String("path", path))
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		slog.Warn(".env file not found, using system environment variables")
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:5173")

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		ServiceName: getEnv("SERVICE_NAME", "projects-api"),
		Version:     getEnv("SERVICE_VERSION", "1.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "projecthub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:      getEnv("JWT_SECRET", "change-this-development-secret-key"),
		JWTExpireHours: getEnvAsInt("JWT_EXPIRE_HOURS", 24),
		SessionCookie:  getEnv("SESSION_COOKIE_NAME", "session_token"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ProjectCacheTTL: time.Duration(getEnvAsInt("PROJECT_CACHE_TTL_SECONDS", 300)) * time.Second,

		RateLimitMaxRequests:          getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitTimeWindowSeconds:    getEnvAsInt("RATE_LIMIT_TIME_WINDOW_SECONDS", 60),
		RateLimitBlockDurationMinutes: getEnvAsInt("RATE_LIMIT_BLOCK_DURATION_MINUTES", 15),

		FrontendURL:    frontendURL,
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{frontendURL}),

		MinIOServerURL:    getEnv("MINIO_SERVER_URL", ""),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "projecthub-assets"),
		PublicSiteURL:     getEnv("PUBLIC_SITE_URL", "http://localhost:8080"),
		AssetMaxFileSize:  int64(getEnvAsInt("ASSET_MAX_FILE_SIZE_MB", 25)) << 20,
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DatabaseDSN builds the postgres connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
	)
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		slog.Warn("Invalid integer in environment, using default", slog.String("key", key), slog.Int("default", defaultValue))
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

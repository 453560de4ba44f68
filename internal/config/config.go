package config

import (
	"errors"
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort string // Application port

	DBUser            string        // Database user
	DBPassword        string        // Database password
	DBHost            string        // Database host
	DBPort            string        // Database port
	DBName            string        // Database name
	DBMaxOpenConns    int           // Pool: max open connections
	DBMaxIdleConns    int           // Pool: max idle connections
	DBConnMaxLifetime time.Duration // Pool: connection recycle age

	JWTSecret string        // JWT secret key
	JWTTTL    time.Duration // Token lifetime

	RedisAddr string        // Redis server address
	RedisPass string        // Redis password
	RedisDB   int           // Redis database number
	CacheTTL  time.Duration // Lifetime of cached read models

	RateLimit float64 // Requests per second per client on login and checkout
	RateBurst int     // Burst allowance for the limiter

	IsProd bool // Is production environment
}

// ErrMissingSecret is returned when production runs without JWT_SECRET
var ErrMissingSecret = errors.New("JWT_SECRET must be set in production")

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		DBUser:            getEnv("DB_USER", "gamevault"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBName:            getEnv("DB_NAME", "gamevault"),
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTTTL:            getDuration("JWT_TTL", 24*time.Hour),
		RedisAddr:         getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:         os.Getenv("REDIS_PASS"),
		RedisDB:           getInt("REDIS_DB", 0),
		CacheTTL:          getDuration("CACHE_TTL", 60*time.Second),
		RateLimit:         getFloat("RATE_LIMIT", 5),
		RateBurst:         getInt("RATE_BURST", 10),
		IsProd:            os.Getenv("IS_PROD") == "true",
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProd {
			return nil, ErrMissingSecret
		}
		cfg.JWTSecret = "dev-secret" // Development only
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Game
	TuningFile    string
	StateFile     string
	SessionTickHz int

	// Leaderboard
	LeaderboardCacheSeconds int

	// Security
	JWTSecret       string
	AdminSessionMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/freethrows?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Game
		TuningFile:    getEnv("TUNING_FILE", ""),
		StateFile:     getEnv("STATE_FILE", "freethrows-state.json"),
		SessionTickHz: getEnvInt("SESSION_TICK_HZ", 60),

		// Leaderboard
		LeaderboardCacheSeconds: getEnvInt("LEADERBOARD_CACHE_SECONDS", 60),

		// Security
		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		AdminSessionMin: getEnvInt("ADMIN_SESSION_MINUTES", 240),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

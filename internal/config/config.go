package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	ServerPort  string
	Environment string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration
	RedisAddress string

	// URL bases for generated project links
	PreviewBaseURL string
	DeployBaseURL  string

	// AI chat defaults
	AIModel string

	// Session lifetime in hours, fixed at creation (not sliding)
	SessionTTLHours int

	FrontendAddress string
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	AppConfig = Config{
		ServerPort:      getEnv("PORT", "8080"),
		Environment:     getEnv("ENV", "development"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "ai_dev_assistant"),
		RedisAddress:    getEnv("REDIS_ADDRESS", "localhost:6379"),
		PreviewBaseURL:  getEnv("PREVIEW_BASE_URL", "https://preview.appdotbuilder.dev"),
		DeployBaseURL:   getEnv("DEPLOY_BASE_URL", "https://apps.appdotbuilder.dev"),
		AIModel:         getEnv("AI_MODEL", "gpt-4o-mini"),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),
		FrontendAddress: getEnv("FRONTEND_ADDRESS", "https://builder.appdotbuilder.dev"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

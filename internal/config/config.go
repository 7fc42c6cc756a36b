package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // Generator timeout

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort          string        // Application port
	DBUser           string        // Database user
	DBPassword       string        // Database password
	DBHost           string        // Database host
	DBPort           string        // Database port
	DBName           string        // Database name
	JWTSecret        string        // Session signing secret
	RedisAddr        string        // Redis server address
	RedisPass        string        // Redis password
	RedisDB          int           // Redis database number
	UploadDir        string        // Directory for persona images
	OpenAIAPIKey     string        // Generator credentials; empty degrades to placeholders
	OpenAIBaseURL    string        // Generator endpoint override, mainly for tests
	OpenAIModel      string        // Generator model name
	GeneratorTimeout time.Duration // Upper bound on one generation call
	IsProd           bool          // Is production environment
}

// getEnv reads an environment variable with a local-development fallback
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadConfig loads configuration from environment variables. Every value has
// a local-development default; production deployments override them.
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	timeoutSecs, _ := strconv.Atoi(getEnv("GENERATOR_TIMEOUT_SECONDS", "30"))
	return &Config{
		AppPort:          getEnv("APP_PORT", "8080"),
		DBUser:           getEnv("DB_USER", "root"),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		DBHost:           getEnv("DB_HOST", "127.0.0.1"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBName:           getEnv("DB_NAME", "persona_diary"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret-key"),
		RedisAddr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:        getEnv("REDIS_PASS", ""),
		RedisDB:          redisDB,
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", ""),
		GeneratorTimeout: time.Duration(timeoutSecs) * time.Second,
		IsProd:           getEnv("IS_PROD", "") == "true", // Is production environment
	}
}

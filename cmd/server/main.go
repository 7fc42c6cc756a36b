package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging
	"os"      // Upload directory bootstrap

	"persona_diary/internal/api"       // Custom package for API handlers
	"persona_diary/internal/config"    // Custom package for configuration
	"persona_diary/internal/db"        // Custom package for database access
	"persona_diary/internal/generator" // Answer generator client

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	gdb, err := db.Open(dsn)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Ensure the question catalog exists on every start
	if err := db.SeedQuestions(gdb); err != nil {
		logrus.Fatalf("failed to seed questions: %v", err)
	}

	// Ensure the upload directory exists
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logrus.Fatalf("failed to create upload dir: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Answer generator; an empty API key degrades to placeholder answers
	gen := generator.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.GeneratorTimeout)
	if cfg.OpenAIAPIKey == "" {
		logrus.Warn("OPENAI_API_KEY not set; answers will be placeholders")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := api.NewRouter(gdb, redisClient, cfg.JWTSecret, cfg.UploadDir, gen.Generate)

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}

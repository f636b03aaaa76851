package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP server
	Port           string
	AllowedOrigins string

	// Master admin credentials. The owner account is not stored in the
	// users table; it is synthesized from these values.
	MasterEmail    string
	MasterPassword string
	MasterUID      string

	// Operator notifications
	TelegramToken  string
	TelegramChatID int64

	// Media storage (S3-compatible)
	S3AccountID       string
	S3AccessKeyID     string
	S3AccessKeySecret string
	S3Bucket          string
	CDNBaseURL        string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is fine; plain environment variables still apply
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           os.Getenv("PORT"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),

		MasterEmail:    os.Getenv("MASTER_EMAIL"),
		MasterPassword: os.Getenv("MASTER_PASSWORD"),
		MasterUID:      os.Getenv("MASTER_UID"),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		S3AccountID:       os.Getenv("S3_ACCOUNT_ID"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3AccessKeySecret: os.Getenv("S3_ACCESS_KEY_SECRET"),
		S3Bucket:          os.Getenv("S3_BUCKET_NAME"),
		CDNBaseURL:        os.Getenv("CDN_BASE_URL"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if chatID := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); chatID != "" {
		if parsed, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			config.TelegramChatID = parsed
		}
	}

	// Defaults
	if config.Port == "" {
		config.Port = "8080"
	}
	if config.AllowedOrigins == "" {
		config.AllowedOrigins = "http://localhost:3000"
	}
	if config.MasterUID == "" {
		config.MasterUID = "ADMIN_MASTER"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.MasterEmail == "" || config.MasterPassword == "" {
			return nil, fmt.Errorf("MASTER_EMAIL and MASTER_PASSWORD are required")
		}
	}

	return config, nil
}

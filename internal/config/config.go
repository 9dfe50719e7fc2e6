package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Email (SendGrid)
	SendGridAPIKey string
	EmailFromName  string
	EmailFromAddr  string
	TeamNotifyAddr string

	// Blob storage (S3)
	AWSRegion string
	S3Bucket  string

	// Payments (Stripe)
	StripeSecretKey    string
	StripeBlockPriceID string
	BillingSuccessURL  string
	BillingCancelURL   string

	// Embed policy. The localhost bypass is a development convenience and
	// must stay off in production.
	EmbedAllowLocalhost bool

	// Quote policy. When enabled, ACCEPTED/REJECTED/CONVERTED quotes
	// refuse further status changes.
	QuoteEnforceTerminal bool

	// Embed rate limiting (per public key, fixed window).
	RateLimitMax    int
	RateLimitWindow time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	env := getEnv("ENV", "development")

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  env,

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "configly"),
		DBPassword: getEnv("DB_PASSWORD", "configly"),
		DBName:     getEnv("DB_NAME", "configly"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Email
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Configly"),
		EmailFromAddr:  getEnv("EMAIL_FROM_ADDR", "no-reply@configly.app"),
		TeamNotifyAddr: getEnv("TEAM_NOTIFY_ADDR", ""),

		// Blob storage
		AWSRegion: getEnv("AWS_REGION", "eu-west-1"),
		S3Bucket:  getEnv("S3_BUCKET", "configly-uploads"),

		// Payments
		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
		StripeBlockPriceID: getEnv("STRIPE_BLOCK_PRICE_ID", ""),
		BillingSuccessURL:  getEnv("BILLING_SUCCESS_URL", "http://localhost:3000/billing/success"),
		BillingCancelURL:   getEnv("BILLING_CANCEL_URL", "http://localhost:3000/billing"),

		EmbedAllowLocalhost:  getEnvBool("EMBED_ALLOW_LOCALHOST", env != "production"),
		QuoteEnforceTerminal: getEnvBool("QUOTE_ENFORCE_TERMINAL", true),

		RateLimitMax: getEnvInt("RATE_LIMIT_MAX", 120),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	windowStr := getEnv("RATE_LIMIT_WINDOW", "1m")
	window, err := time.ParseDuration(windowStr)
	if err != nil {
		log.Printf("Warning: invalid RATE_LIMIT_WINDOW value '%s', falling back to 1m\n", windowStr)
		window = time.Minute
	}
	config.RateLimitWindow = window

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', using default\n", key, value)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', using default\n", key, value)
		return defaultValue
	}
	return parsed
}

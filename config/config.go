// config/config.go
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Tracking sequence sources
const (
	SequenceCount = "count"
	SequenceRedis = "redis"
)

// Config holds everything the server reads from the environment
type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	MongoURI string
	MongoDB  string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TrackingSequence string
	TrackingPrefix   string

	Email Email

	SeedProducts bool
}

// Email selects and configures the outgoing mail provider
type Email struct {
	Provider      string // "postmark", "sendgrid" or "log"
	PostmarkToken string
	SendgridKey   string
	Sender        string
}

// Load reads the .env file when present, then the environment
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, proceeding with environment variables")
	}

	cfg := Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8000"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "ecommerce"),

		JWTSecret: getEnv("JWT_SECRET", "your_secret_key"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		TrackingPrefix: getEnv("TRACKING_PREFIX", "TRK"),

		Email: Email{
			Provider:      strings.ToLower(getEnv("EMAIL_PROVIDER", "log")),
			PostmarkToken: os.Getenv("POSTMARK_API_TOKEN"),
			SendgridKey:   os.Getenv("SENDGRID_API_KEY"),
			Sender:        getEnv("EMAIL_SENDER", "shop@example.com"),
		},

		SeedProducts: getEnvBool("SEED_PRODUCTS", true),
	}

	defaultSequence := SequenceCount
	if cfg.RedisAddr != "" {
		defaultSequence = SequenceRedis
	}
	cfg.TrackingSequence = strings.ToLower(getEnv("TRACKING_SEQUENCE", defaultSequence))

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

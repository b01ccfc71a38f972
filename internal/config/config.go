package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL      string
	RedisURL         string
	JWTSecret        string
	ServerPort       string
	Environment      string
	JWTExpiry        time.Duration
	TelegramBotToken string

	// Report lifecycle
	VisibilityWindow   time.Duration // how long a report stays in listings
	GonePenalty        time.Duration // timestamp shift applied per "gone" vote
	DisplayUTCOffset   int           // hours added to UTC for presentation times
	ListingCacheTTL    time.Duration
	JournalPath        string

	// Trust scoring: inclusive lower like-count bounds for levels 2..5.
	// Level 1 is the floor.
	TrustThresholds [4]int

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	RateLimitBlockTime   time.Duration
}

func Load() *Config {
	// Try to load .env file, but don't fail if it doesn't exist
	// (Docker containers use environment variables directly)
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	expiry := getEnvAsDuration("JWT_EXPIRY", "24h")

	journalPath := os.Getenv("JOURNAL_PATH")
	if journalPath == "" {
		journalPath = "data/journal.log"
	}

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		ServerPort:       os.Getenv("SERVER_PORT"),
		Environment:      os.Getenv("ENVIRONMENT"),
		JWTExpiry:        expiry,
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		VisibilityWindow: getEnvAsDuration("VISIBILITY_WINDOW", "2h"),
		GonePenalty:      getEnvAsDuration("GONE_PENALTY", "10m"),
		DisplayUTCOffset: getEnvAsInt("DISPLAY_UTC_OFFSET_HOURS", 4),
		ListingCacheTTL:  getEnvAsDuration("LISTING_CACHE_TTL", "5s"),
		JournalPath:      journalPath,

		TrustThresholds: [4]int{
			getEnvAsInt("TRUST_LEVEL_2_LIKES", 5),
			getEnvAsInt("TRUST_LEVEL_3_LIKES", 10),
			getEnvAsInt("TRUST_LEVEL_4_LIKES", 25),
			getEnvAsInt("TRUST_LEVEL_5_LIKES", 50),
		},

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		RateLimitBlockTime:   getEnvAsDuration("RATE_LIMIT_BLOCK_TIME", "5m"),
	}

	return cfg
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}

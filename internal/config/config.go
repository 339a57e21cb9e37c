package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Env string

	// Marketplace API
	APIBaseURL string
	APITimeout time.Duration
	UserAgent  string

	// Redis (session cache; optional)
	RedisURL string

	// Booking reference month used to resolve day-of-month selections
	BookingRefYear  int
	BookingRefMonth int

	// Logging
	LogLevel string
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Environment
		Env: getEnv("ENV", "development"),

		// Marketplace API
		APIBaseURL: getEnv("API_BASE_URL", "https://api.dubaiboating.com/public/api"),
		APITimeout: time.Duration(parseInt(getEnv("API_TIMEOUT_SECONDS", "10"), 10)) * time.Second,
		UserAgent:  getEnv("API_USER_AGENT", "boating-app/1.0"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Booking reference month: the date picker only carries a
		// day-of-month, see internal/domain/booking
		BookingRefYear:  parseInt(getEnv("BOOKING_REF_YEAR", "2024"), 2024),
		BookingRefMonth: parseInt(getEnv("BOOKING_REF_MONTH", "11"), 11),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

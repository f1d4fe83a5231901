package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	Port           string
	Environment    string
	JWTSecret      string
	FrontendURL    string
	MigrationsPath string

	// Booking rules.
	BookingWindowDays int
	ExcludedWeekdays  []time.Weekday

	// Abuse mitigation for citizen submissions.
	RateLimitPerWindow int
	RateLimitWindow    time.Duration

	// Retention of old cancelled appointments.
	CleanupRetentionMonths int
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:                  os.Getenv("DB_DSN"),
		Port:                   getEnv("PORT", "5000"),
		Environment:            getEnv("ENV", "development"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		FrontendURL:            getEnv("FRONTEND_URL", "http://localhost:3000"),
		MigrationsPath:         getEnv("MIGRATIONS_PATH", "migrations"),
		BookingWindowDays:      getEnvInt("BOOKING_WINDOW_DAYS", 30),
		RateLimitPerWindow:     getEnvInt("RATE_LIMIT_PER_WINDOW", 5),
		RateLimitWindow:        time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
		CleanupRetentionMonths: getEnvInt("CLEANUP_RETENTION_MONTHS", 6),
	}

	var err error
	cfg.ExcludedWeekdays, err = parseWeekdays(getEnv("BOOKING_EXCLUDED_WEEKDAYS", "5,6"))
	if err != nil {
		return nil, fmt.Errorf("parse BOOKING_EXCLUDED_WEEKDAYS: %w", err)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

// parseWeekdays reads a comma-separated list of weekday numbers, 0=Sunday.
// The default "5,6" keeps Friday and Saturday non-bookable.
func parseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

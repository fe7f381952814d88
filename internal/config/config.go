// internal/config/config.go
//
// Process configuration for the server and CLI.
// Responsibilities:
//   - Load a local .env file when present (godotenv).
//   - Read environment variables with defaults into Config.
//   - Parse typed values (ints, dates) and report bad input as errors.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string // "json" | "console"

	DatabasePath string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool

	DailySalt  string
	DailyEpoch time.Time

	AnswersFile string
	AllowedFile string
}

const defaultEpoch = "2026-01-01"

// Load reads .env (if any) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/bloxmision.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		CookieName:   getEnv("COOKIE_NAME", "bloxmision_token"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		AnswersFile:  os.Getenv("WORDS_ANSWERS_FILE"),
		AllowedFile:  os.Getenv("WORDS_ALLOWED_FILE"),
	}

	days, err := strconv.Atoi(getEnv("JWT_EXPIRES_DAYS", "14"))
	if err != nil || days <= 0 {
		return Config{}, fmt.Errorf("config: JWT_EXPIRES_DAYS must be a positive integer")
	}
	c.JWTExpiresDays = days

	epoch, err := time.Parse("2006-01-02", getEnv("DAILY_EPOCH", defaultEpoch))
	if err != nil {
		return Config{}, fmt.Errorf("config: DAILY_EPOCH: %w", err)
	}
	c.DailyEpoch = epoch

	if c.Production && c.JWTSecret == "dev_secret_change_me" {
		return Config{}, fmt.Errorf("config: JWT_SECRET must be set in production")
	}
	return c, nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return ":" + c.Port }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

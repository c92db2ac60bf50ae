package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI   string
	TelegramToken string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// Timezone is the single operating zone all reminder times and billing
	// periods are interpreted in.
	Timezone      string
	CheckInterval time.Duration
	LogLevel      string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	smtpPort, err := strconv.Atoi(getEnvOrDefault("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	intervalSec, err := strconv.Atoi(getEnvOrDefault("CHECK_INTERVAL_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECK_INTERVAL_SECONDS: %w", err)
	}

	return &Config{
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      smtpPort,
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		MailFrom:      getEnvOrDefault("MAIL_FROM", os.Getenv("SMTP_USERNAME")),
		Timezone:      getEnvOrDefault("TIMEZONE", "Asia/Taipei"),
		CheckInterval: time.Duration(intervalSec) * time.Second,
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}

// Location resolves the configured operating time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// EmailConfigured reports whether the SMTP transport can be built.
func (c *Config) EmailConfigured() bool {
	return c.SMTPHost != "" && c.MailFrom != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

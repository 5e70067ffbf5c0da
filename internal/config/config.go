// Package config reads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	MigrationsPath string
	DBConnAttempts int

	RedisURL     string
	RedisChannel string
	NATSURL      string
	NATSSubject  string

	TelegramBotToken string
	DoctorChatID     int64
	PDFFontPath      string

	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Load reads .env when present, then the process environment. Environment
// variables already set take precedence over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	chatID, err := getEnvInt64("DOCTOR_CHAT_ID", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", ""),
		DBConnAttempts:   getEnvInt("DB_CONNECT_ATTEMPTS", 10),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisChannel:     getEnv("REDIS_CHANNEL", "triage.queue"),
		NATSURL:          getEnv("NATS_URL", ""),
		NATSSubject:      getEnv("NATS_SUBJECT", "triage.queue"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		DoctorChatID:     chatID,
		PDFFontPath:      getEnv("PDF_FONT_PATH", ""),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "*")),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	return cfg, nil
}

// Validate reports every malformed setting at once.
func (c *Config) Validate() error {
	var errs []error
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT %q is not a valid port", c.Port))
	}
	if c.DBConnAttempts < 1 {
		errs = append(errs, fmt.Errorf("DB_CONNECT_ATTEMPTS must be positive, got %d", c.DBConnAttempts))
	}
	if c.RedisURL != "" && c.RedisChannel == "" {
		errs = append(errs, errors.New("REDIS_CHANNEL must be set when REDIS_URL is"))
	}
	if c.NATSURL != "" && c.NATSSubject == "" {
		errs = append(errs, errors.New("NATS_SUBJECT must be set when NATS_URL is"))
	}
	if c.TelegramBotToken != "" && c.DoctorChatID == 0 {
		errs = append(errs, errors.New("DOCTOR_CHAT_ID must be set when TELEGRAM_BOT_TOKEN is"))
	}
	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("ALLOWED_ORIGINS must list at least one origin"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

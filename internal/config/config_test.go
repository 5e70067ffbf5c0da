package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "MIGRATIONS_PATH", "REDIS_URL", "NATS_URL",
		"TELEGRAM_BOT_TOKEN", "DOCTOR_CHAT_ID", "ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT", "DB_CONNECT_ATTEMPTS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "triage.queue", cfg.RedisChannel)
	assert.Equal(t, "triage.queue", cfg.NATSSubject)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10, cfg.DBConnAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "sqlite://triage.db")
	t.Setenv("DOCTOR_CHAT_ID", "-100200300")
	t.Setenv("TELEGRAM_BOT_TOKEN", "abc")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://er.example.org ,")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite://triage.db", cfg.DatabaseURL)
	assert.Equal(t, int64(-100200300), cfg.DoctorChatID)
	assert.Equal(t, []string{"http://localhost:3000", "https://er.example.org"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadChatID(t *testing.T) {
	t.Setenv("DOCTOR_CHAT_ID", "doctor")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Port:             "http",
		DBConnAttempts:   0,
		RedisURL:         "redis://localhost:6379",
		TelegramBotToken: "abc",
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"PORT", "DB_CONNECT_ATTEMPTS", "REDIS_CHANNEL", "DOCTOR_CHAT_ID", "ALLOWED_ORIGINS"} {
		assert.Contains(t, err.Error(), want)
	}
}

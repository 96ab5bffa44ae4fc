package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ADDR", "DATABASE_URL", "REDIS_URL", "JWT_SIGNING_KEY", "JWT_ISSUER",
		"ALLOWED_ORIGINS", "KAFKA_BROKERS", "AUDIT_TOPIC", "LOG_LEVEL",
		"IDEMPOTENCY_TTL", "DB_TX_TIMEOUT", "CHECKLIST_TEMPLATE_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.NotEmpty(t, cfg.JWTSigningKey)
	assert.Equal(t, "reratrack", cfg.JWTIssuer)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.DBTxTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Ledger.IdempotencyTTL)
	assert.Empty(t, cfg.Audit.KafkaBrokers)
	assert.Equal(t, "reratrack.audit", cfg.Audit.Topic)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("IDEMPOTENCY_TTL", "90m")
	t.Setenv("DB_TX_TIMEOUT", "not-a-duration")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Audit.KafkaBrokers)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 90*time.Minute, cfg.Ledger.IdempotencyTTL)
	assert.Equal(t, 5*time.Second, cfg.DBTxTimeout, "invalid durations fall back to the default")
}

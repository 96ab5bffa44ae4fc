package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "reratrack/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	DatabaseURL    string
	JWTSigningKey  string
	JWTIssuer      string
	AllowedOrigins []string
	LogLevel       slog.Level
	DBTxTimeout    time.Duration

	Redis     RedisConfig
	Audit     AuditConfig
	Checklist ChecklistConfig
	Ledger    LedgerConfig
}

// RedisConfig configures the optional Redis connection.
// An empty URL keeps idempotency keys in process memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig configures the optional Kafka audit sink.
type AuditConfig struct {
	KafkaBrokers []string
	Topic        string
}

// ChecklistConfig points at an optional YAML override of the default
// document list.
type ChecklistConfig struct {
	TemplatePath string
}

// LedgerConfig holds ledger tunables.
type LedgerConfig struct {
	IdempotencyTTL time.Duration
}

const (
	defaultAddr           = ":8080"
	defaultJWTIssuer      = "reratrack"
	defaultAuditTopic     = "reratrack.audit"
	defaultIdempotencyTTL = 24 * time.Hour
	defaultDBTxTimeout    = 5 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; production deployments must override it.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:           getEnv("APP_ADDR", defaultAddr),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSigningKey:  jwtSigningKey,
		JWTIssuer:      getEnv("JWT_ISSUER", defaultJWTIssuer),
		AllowedOrigins: platformstrings.SplitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       parseLevel(os.Getenv("LOG_LEVEL")),
		DBTxTimeout:    getDuration("DB_TX_TIMEOUT", defaultDBTxTimeout),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			KafkaBrokers: platformstrings.SplitList(os.Getenv("KAFKA_BROKERS")),
			Topic:        getEnv("AUDIT_TOPIC", defaultAuditTopic),
		},
		Checklist: ChecklistConfig{
			TemplatePath: os.Getenv("CHECKLIST_TEMPLATE_PATH"),
		},
		Ledger: LedgerConfig{
			IdempotencyTTL: getDuration("IDEMPOTENCY_TTL", defaultIdempotencyTTL),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

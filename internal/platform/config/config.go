package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean. Optional integrations (Redis, Kafka, SMTP) degrade to disabled
// when their settings are absent.
type Config struct {
	Addr        string
	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig
	SMTP  SMTPConfig

	RendererURL string
	StorageDir  string

	Verification VerificationConfig
	Session      SessionConfig

	AdminToken      string
	OperationsEmail string
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers    string
	AuditTopic string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type VerificationConfig struct {
	TokenLength int
	TokenTTL    time.Duration
	MaxAttempts int
	// SendsPerWindow caps SendVerification calls per email per window when
	// Redis is configured.
	SendsPerWindow int
	SendWindow     time.Duration
}

type SessionConfig struct {
	SigningKey string
	TTL        time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:        envOr("APPLYFORM_ADDR", ":8080"),
		PostgresDSN: os.Getenv("APPLYFORM_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("APPLYFORM_REDIS_URL"),
			PoolSize:     envInt("APPLYFORM_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("APPLYFORM_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("APPLYFORM_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("APPLYFORM_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("APPLYFORM_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    os.Getenv("APPLYFORM_KAFKA_BROKERS"),
			AuditTopic: envOr("APPLYFORM_KAFKA_AUDIT_TOPIC", "applyform.audit"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
			FromName: envOr("SMTP_FROM_NAME", "Accommodation Applications"),
		},
		RendererURL: envOr("APPLYFORM_RENDERER_URL", "http://localhost:8081"),
		StorageDir:  envOr("APPLYFORM_STORAGE_DIR", "./documents"),
		Verification: VerificationConfig{
			TokenLength:    envInt("APPLYFORM_TOKEN_LENGTH", 6),
			TokenTTL:       envDuration("APPLYFORM_TOKEN_TTL", 10*time.Minute),
			MaxAttempts:    envInt("APPLYFORM_TOKEN_MAX_ATTEMPTS", 5),
			SendsPerWindow: envInt("APPLYFORM_SEND_LIMIT", 5),
			SendWindow:     envDuration("APPLYFORM_SEND_WINDOW", time.Hour),
		},
		Session: SessionConfig{
			// Default is for development only; override in production.
			SigningKey: envOr("APPLYFORM_SESSION_SIGNING_KEY", "dev-secret-key-change-in-production"),
			TTL:        envDuration("APPLYFORM_SESSION_TTL", 2*time.Hour),
		},
		AdminToken:      os.Getenv("APPLYFORM_ADMIN_TOKEN"),
		OperationsEmail: os.Getenv("APPLYFORM_OPERATIONS_EMAIL"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

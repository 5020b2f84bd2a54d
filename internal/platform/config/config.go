// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	JWT         JWTConfig
	Kafka       KafkaConfig
}

// RedisConfig holds connection settings for the token revocation list. An
// empty URL means Redis is not configured and the in-memory fallback is used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// JWTConfig holds access token signing settings.
type JWTConfig struct {
	SigningKey     string
	Issuer         string
	Audience       string
	AccessTokenTTL time.Duration
}

// KafkaConfig holds audit publishing settings. Empty Brokers disables the
// Kafka sink.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Config from environment variables, applying development
// defaults for anything unset.
func FromEnv() Config {
	cfg := Config{
		Addr:        getEnv("SCHEMETELLER_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		JWT: JWTConfig{
			SigningKey:     os.Getenv("JWT_SIGNING_KEY"),
			Issuer:         getEnv("JWT_ISSUER", "schemeteller"),
			Audience:       getEnv("JWT_AUDIENCE", "schemeteller-api"),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TOKEN_TTL", time.Hour),
		},
		Kafka: KafkaConfig{
			AuditTopic: getEnv("KAFKA_AUDIT_TOPIC", "schemeteller.audit"),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}

	if cfg.JWT.SigningKey == "" {
		// Development default - must be overridden in production.
		cfg.JWT.SigningKey = "dev-secret-key-change-in-production"
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// Package config loads assistant configuration from EDUBOT_* environment
// variables and validates it before anything starts.
package config

import (
	"fmt"

	"github.com/sweetpotato0/edubot/pkg/env"
)

// Supported provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// Supported session store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// LLMConfig holds provider settings.
type LLMConfig struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// RedisConfig holds Redis session store settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTLHours int
}

// PostgresConfig holds PostgreSQL session store settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Config is the full assistant configuration.
type Config struct {
	CatalogPath      string
	SessionStore     string
	LLM              LLMConfig
	Redis            RedisConfig
	Postgres         PostgresConfig
	DisableTelemetry bool
}

// FromEnv builds a configuration from EDUBOT_* environment variables,
// falling back to development defaults.
func FromEnv() *Config {
	return &Config{
		CatalogPath:  env.GetEnv("EDUBOT_CATALOG_PATH", "data/catalog.yaml"),
		SessionStore: env.GetEnv("EDUBOT_SESSION_STORE", StoreMemory),
		LLM: LLMConfig{
			Provider:    env.GetEnv("EDUBOT_PROVIDER", ProviderGemini),
			APIKey:      env.GetEnv("EDUBOT_API_KEY", ""),
			Model:       env.GetEnv("EDUBOT_MODEL", ""),
			Temperature: env.GetEnvFloat("EDUBOT_TEMPERATURE", 0.7),
			MaxTokens:   env.GetEnvInt("EDUBOT_MAX_TOKENS", 2048),
		},
		Redis: RedisConfig{
			Addr:     env.GetEnv("EDUBOT_REDIS_ADDR", "localhost:6379"),
			Password: env.GetEnv("EDUBOT_REDIS_PASSWORD", ""),
			DB:       env.GetEnvInt("EDUBOT_REDIS_DB", 0),
			Prefix:   env.GetEnv("EDUBOT_REDIS_PREFIX", "edubot:session:"),
			TTLHours: env.GetEnvInt("EDUBOT_REDIS_TTL_HOURS", 24),
		},
		Postgres: PostgresConfig{
			Host:     env.GetEnv("EDUBOT_POSTGRES_HOST", "localhost"),
			Port:     env.GetEnvInt("EDUBOT_POSTGRES_PORT", 5432),
			User:     env.GetEnv("EDUBOT_POSTGRES_USER", "postgres"),
			Password: env.GetEnv("EDUBOT_POSTGRES_PASSWORD", ""),
			DBName:   env.GetEnv("EDUBOT_POSTGRES_DB", "edubot"),
			SSLMode:  env.GetEnv("EDUBOT_POSTGRES_SSLMODE", "disable"),
		},
		DisableTelemetry: env.GetEnvBool("EDUBOT_DISABLE_TELEMETRY", false),
	}
}

// Validate checks the configuration, including only the backends that are
// actually selected.
func (c *Config) Validate() error {
	v := NewValidator()
	v.RequireNonEmpty("catalogPath", c.CatalogPath)
	v.ValidateOneOf("sessionStore", c.SessionStore, StoreMemory, StoreRedis, StorePostgres)
	v.ValidateOneOf("llm.provider", c.LLM.Provider, ProviderGemini, ProviderOpenAI, ProviderClaude)
	v.RequireNonEmpty("llm.apiKey", c.LLM.APIKey)
	v.ValidateFloatRange("llm.temperature", c.LLM.Temperature, 0.0, 2.0)
	v.RequirePositive("llm.maxTokens", c.LLM.MaxTokens)
	if err := v.Error(); err != nil {
		return err
	}

	switch c.SessionStore {
	case StoreRedis:
		if err := ValidateRedisConfig(c.Redis.Addr, c.Redis.DB, c.Redis.Prefix); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	case StorePostgres:
		if err := ValidatePostgresConfig(c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.DBName, c.Postgres.SSLMode); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	return nil
}

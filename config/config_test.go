package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		CatalogPath:  "data/catalog.yaml",
		SessionStore: StoreMemory,
		LLM: LLMConfig{
			Provider:    ProviderGemini,
			APIKey:      "key",
			Temperature: 0.7,
			MaxTokens:   2048,
		},
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestValidateMissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "llm.apiKey") {
		t.Errorf("Expected apiKey in error, got %v", err)
	}
}

func TestValidateBadProvider(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "mystery"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestValidateBadStore(t *testing.T) {
	cfg := validConfig()
	cfg.SessionStore = "tape"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown session store")
	}
}

func TestValidateRedisStoreChecked(t *testing.T) {
	cfg := validConfig()
	cfg.SessionStore = StoreRedis
	cfg.Redis = RedisConfig{Addr: "", DB: 0, Prefix: "edubot:session:"}

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty Redis addr")
	}
}

func TestValidatePostgresStoreChecked(t *testing.T) {
	cfg := validConfig()
	cfg.SessionStore = StorePostgres
	cfg.Postgres = PostgresConfig{Host: "localhost", Port: 5432, User: "postgres", DBName: "edubot", SSLMode: "sideways"}

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for bad SSL mode")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	if cfg.SessionStore != StoreMemory {
		t.Errorf("Expected memory store default, got '%s'", cfg.SessionStore)
	}
	if cfg.LLM.Provider != ProviderGemini {
		t.Errorf("Expected gemini default, got '%s'", cfg.LLM.Provider)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("Expected default temperature 0.7, got %f", cfg.LLM.Temperature)
	}
}

func TestFromEnvOverride(t *testing.T) {
	t.Setenv("EDUBOT_PROVIDER", ProviderClaude)
	t.Setenv("EDUBOT_MAX_TOKENS", "512")

	cfg := FromEnv()
	if cfg.LLM.Provider != ProviderClaude {
		t.Errorf("Expected claude, got '%s'", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens != 512 {
		t.Errorf("Expected 512 max tokens, got %d", cfg.LLM.MaxTokens)
	}
}

func TestValidatorAccumulates(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("a", "").RequirePositive("b", -1)

	if len(v.Errors()) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(v.Errors()))
	}
}

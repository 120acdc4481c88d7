package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "leadpulse"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth: AuthConfig{
			JWTSecret:        "secret",
			OperatorEmail:    "ops@example.com",
			OperatorPassword: "hunter2",
		},
		Vapi: VapiConfig{APIKey: "key", AssistantID: "asst", PhoneNumberID: "pn"},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_LocalConfigPasses(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_ProductionRequiresSSLModeAndWebhookSecret(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "issuer"
	c.Auth.JWTAudience = "aud"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE and VAPI_WEBHOOK_SECRET")
	}

	c.DB.SSLMode = "require"
	c.Vapi.WebhookSecret = "whsec"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_LLMKeyOptional(t *testing.T) {
	c := validConfig()
	c.LLM.APIKey = ""
	if err := c.Validate(); err != nil {
		t.Fatalf("LLM key must be optional, got %v", err)
	}
}

func TestWithDefaults(t *testing.T) {
	c := validConfig().WithDefaults()
	if c.DB.SSLMode != "disable" {
		t.Fatalf("sslmode = %q, want disable", c.DB.SSLMode)
	}
	if c.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("access ttl = %v", c.Auth.AccessTokenTTL)
	}
	if c.LLM.Model == "" {
		t.Fatalf("expected default model")
	}
}

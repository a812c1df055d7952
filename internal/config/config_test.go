package config

import (
	"log/slog"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("datalake-admin", lookupFrom(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("profile = %q, want dev", cfg.Profile)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("http address = %q", cfg.HTTP.Address)
	}
	if cfg.Engine.Kind != EngineAthena {
		t.Fatalf("engine kind = %q", cfg.Engine.Kind)
	}
	if cfg.Engine.Database != "willa_datalake" {
		t.Fatalf("database = %q", cfg.Engine.Database)
	}
	if cfg.Engine.FallbackWorkgroup != "primary" {
		t.Fatalf("fallback workgroup = %q", cfg.Engine.FallbackWorkgroup)
	}
	if cfg.Engine.PollInterval != 500*time.Millisecond {
		t.Fatalf("poll interval = %s", cfg.Engine.PollInterval)
	}
	if cfg.Chat.TaskTimeout != 25*time.Second {
		t.Fatalf("chat task timeout = %s", cfg.Chat.TaskTimeout)
	}
	if cfg.Agent.Enabled {
		t.Fatal("agent should default to disabled")
	}
}

func TestLoadTestProfile(t *testing.T) {
	cfg, err := Load("datalake-admin", lookupFrom(map[string]string{
		"WILLA_PROFILE": "test",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Kind != EngineLocal {
		t.Fatalf("engine kind = %q, want local", cfg.Engine.Kind)
	}
	if cfg.HTTP.Address != ":18080" {
		t.Fatalf("http address = %q", cfg.HTTP.Address)
	}
	if cfg.Observability.LogLevel != slog.LevelWarn {
		t.Fatalf("log level = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load("datalake-admin", lookupFrom(map[string]string{
		"WILLA_PROFILE":             "prod",
		"WILLA_HTTP_ADDR":           ":9090",
		"WILLA_ENGINE":              "athena",
		"AWS_REGION":                "eu-central-1",
		"WILLA_ATHENA_DATABASE":     "lake",
		"WILLA_ATHENA_WORKGROUP":    "analytics",
		"WILLA_ATHENA_MAX_WAIT":     "20s",
		"WILLA_CHAT_TASK_TIMEOUT":   "10s",
		"COGNITO_USER_POOL_ID":      "us-east-1_abc123",
		"WILLA_AGENT_ENABLED":       "true",
		"WILLA_AGENT_API_KEY":       "sk-test",
		"WILLA_AGENT_MODEL":         "gpt-4o",
		"WILLA_AGENT_TEMPERATURE":   "0.3",
		"WILLA_LOG_LEVEL":           "error",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Address != ":9090" {
		t.Fatalf("http address = %q", cfg.HTTP.Address)
	}
	if cfg.Engine.Region != "eu-central-1" {
		t.Fatalf("region = %q", cfg.Engine.Region)
	}
	if cfg.Engine.Database != "lake" || cfg.Engine.Workgroup != "analytics" {
		t.Fatalf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.MaxWait != 20*time.Second {
		t.Fatalf("max wait = %s", cfg.Engine.MaxWait)
	}
	if cfg.Chat.TaskTimeout != 10*time.Second {
		t.Fatalf("chat task timeout = %s", cfg.Chat.TaskTimeout)
	}
	if cfg.Directory.UserPoolID != "us-east-1_abc123" {
		t.Fatalf("user pool id = %q", cfg.Directory.UserPoolID)
	}
	if !cfg.Agent.Enabled || cfg.Agent.Model != "gpt-4o" || cfg.Agent.Temperature != 0.3 {
		t.Fatalf("agent = %+v", cfg.Agent)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("log level = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadRejectsInvalidInput(t *testing.T) {
	cases := map[string]map[string]string{
		"profile":       {"WILLA_PROFILE": "staging"},
		"engine kind":   {"WILLA_ENGINE": "bigquery"},
		"poll interval": {"WILLA_ATHENA_POLL_INTERVAL": "soon"},
		"log level":     {"WILLA_LOG_LEVEL": "loud"},
		"temperature":   {"WILLA_AGENT_TEMPERATURE": "warm"},
	}
	for name, env := range cases {
		if _, err := Load("datalake-admin", lookupFrom(env)); err == nil {
			t.Errorf("%s: expected error for %v", name, env)
		}
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	_, err := Load("datalake-admin", lookupFrom(map[string]string{
		"WILLA_ATHENA_DATABASE": "",
	}))
	if err == nil {
		t.Fatal("expected error for empty database")
	}
}

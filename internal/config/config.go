package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type LookupFunc func(string) (string, bool)

type Profile string

const (
	ProfileDev  Profile = "dev"
	ProfileTest Profile = "test"
	ProfileProd Profile = "prod"
)

type EngineKind string

const (
	EngineAthena EngineKind = "athena"
	EngineLocal  EngineKind = "local"
)

type Config struct {
	Profile       Profile
	Service       ServiceConfig
	HTTP          HTTPConfig
	Engine        EngineConfig
	LocalStore    LocalStoreConfig
	Directory     DirectoryConfig
	Agent         AgentConfig
	Chat          ChatConfig
	Observability ObservabilityConfig
}

type ServiceConfig struct {
	Name string
}

type HTTPConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// EngineConfig parameterizes the query engine boundary. Kind "athena"
// talks to the managed service; "local" runs statements against parquet
// files staged from the local object store.
type EngineConfig struct {
	Kind              EngineKind
	Region            string
	Database          string
	Workgroup         string
	FallbackWorkgroup string
	OutputLocation    string
	PollInterval      time.Duration
	MaxWait           time.Duration
}

type LocalStoreConfig struct {
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Prefix          string
}

type DirectoryConfig struct {
	UserPoolID string
}

type AgentConfig struct {
	Enabled     bool
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxSteps    int
}

// ChatConfig bounds the background analyst task spawned per inbound
// chat message on the messaging surface.
type ChatConfig struct {
	TaskTimeout      time.Duration
	CallbackEndpoint string
}

type ObservabilityConfig struct {
	LogLevel slog.Level
	LogJSON  bool
}

func LoadFromEnv(serviceName string) (Config, error) {
	return Load(serviceName, os.LookupEnv)
}

func Load(serviceName string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	profile := ProfileDev
	if raw, ok := lookup("WILLA_PROFILE"); ok {
		profile = Profile(strings.ToLower(strings.TrimSpace(raw)))
	}
	if !isValidProfile(profile) {
		return Config{}, fmt.Errorf("invalid WILLA_PROFILE: %q", profile)
	}

	cfg := defaultsForProfile(profile)
	if serviceName != "" {
		cfg.Service.Name = serviceName
	}

	if err := applyString(lookup, "WILLA_SERVICE_NAME", &cfg.Service.Name); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_HTTP_ADDR", &cfg.HTTP.Address); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "WILLA_HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "WILLA_HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "WILLA_HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout); err != nil {
		return Config{}, err
	}
	if raw, ok := lookup("WILLA_ENGINE"); ok {
		kind := EngineKind(strings.ToLower(strings.TrimSpace(raw)))
		if kind != EngineAthena && kind != EngineLocal {
			return Config{}, fmt.Errorf("invalid WILLA_ENGINE: %q", raw)
		}
		cfg.Engine.Kind = kind
	}
	if err := applyString(lookup, "AWS_REGION", &cfg.Engine.Region); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_ATHENA_DATABASE", &cfg.Engine.Database); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_ATHENA_WORKGROUP", &cfg.Engine.Workgroup); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_ATHENA_FALLBACK_WORKGROUP", &cfg.Engine.FallbackWorkgroup); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_ATHENA_OUTPUT_LOCATION", &cfg.Engine.OutputLocation); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "WILLA_ATHENA_POLL_INTERVAL", &cfg.Engine.PollInterval); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "WILLA_ATHENA_MAX_WAIT", &cfg.Engine.MaxWait); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_LOCALSTORE_ENDPOINT", &cfg.LocalStore.Endpoint); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_LOCALSTORE_BUCKET", &cfg.LocalStore.Bucket); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_LOCALSTORE_ACCESS_KEY", &cfg.LocalStore.AccessKeyID); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_LOCALSTORE_SECRET_KEY", &cfg.LocalStore.SecretAccessKey); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "WILLA_LOCALSTORE_USE_SSL", &cfg.LocalStore.UseSSL); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_LOCALSTORE_PREFIX", &cfg.LocalStore.Prefix); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "COGNITO_USER_POOL_ID", &cfg.Directory.UserPoolID); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "WILLA_AGENT_ENABLED", &cfg.Agent.Enabled); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_AGENT_BASE_URL", &cfg.Agent.BaseURL); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_AGENT_API_KEY", &cfg.Agent.APIKey); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_AGENT_MODEL", &cfg.Agent.Model); err != nil {
		return Config{}, err
	}
	if err := applyFloat(lookup, "WILLA_AGENT_TEMPERATURE", &cfg.Agent.Temperature); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "WILLA_AGENT_TIMEOUT", &cfg.Agent.Timeout); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "WILLA_AGENT_MAX_STEPS", &cfg.Agent.MaxSteps); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "WILLA_CHAT_TASK_TIMEOUT", &cfg.Chat.TaskTimeout); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "WILLA_CHAT_CALLBACK_ENDPOINT", &cfg.Chat.CallbackEndpoint); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "WILLA_LOG_JSON", &cfg.Observability.LogJSON); err != nil {
		return Config{}, err
	}
	if err := applyLogLevel(lookup, "WILLA_LOG_LEVEL", &cfg.Observability.LogLevel); err != nil {
		return Config{}, err
	}

	if cfg.Service.Name == "" {
		return Config{}, fmt.Errorf("service name is required")
	}
	if cfg.HTTP.Address == "" {
		return Config{}, fmt.Errorf("http address is required")
	}
	if cfg.Engine.Database == "" {
		return Config{}, fmt.Errorf("engine database is required")
	}
	if cfg.Engine.PollInterval <= 0 {
		return Config{}, fmt.Errorf("engine poll interval must be positive")
	}
	return cfg, nil
}

func defaultsForProfile(profile Profile) Config {
	cfg := Config{
		Profile: profile,
		Service: ServiceConfig{Name: "datalake-admin"},
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Engine: EngineConfig{
			Kind:              EngineAthena,
			Region:            "us-east-1",
			Database:          "willa_datalake",
			Workgroup:         "willa_datalake",
			FallbackWorkgroup: "primary",
			PollInterval:      500 * time.Millisecond,
		},
		LocalStore: LocalStoreConfig{
			Endpoint:        "localhost:9000",
			Bucket:          "willa-datalake",
			AccessKeyID:     "minio",
			SecretAccessKey: "miniostorage",
			UseSSL:          false,
			Prefix:          "",
		},
		Agent: AgentConfig{
			Enabled:     false,
			BaseURL:     "https://api.openai.com",
			Model:       "gpt-4o-mini",
			Temperature: 0.1,
			Timeout:     30 * time.Second,
			MaxSteps:    8,
		},
		Chat: ChatConfig{
			TaskTimeout: 25 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel: slog.LevelDebug,
			LogJSON:  true,
		},
	}

	switch profile {
	case ProfileTest:
		cfg.HTTP.Address = ":18080"
		cfg.Engine.Kind = EngineLocal
		cfg.Observability.LogLevel = slog.LevelWarn
	case ProfileProd:
		cfg.Observability.LogLevel = slog.LevelInfo
		cfg.LocalStore.UseSSL = true
	}

	return cfg
}

func isValidProfile(profile Profile) bool {
	switch profile {
	case ProfileDev, ProfileTest, ProfileProd:
		return true
	default:
		return false
	}
}

func applyString(lookup LookupFunc, key string, dst *string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	*dst = strings.TrimSpace(raw)
	return nil
}

func applyDuration(lookup LookupFunc, key string, dst *time.Duration) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyBool(lookup LookupFunc, key string, dst *bool) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyInt(lookup LookupFunc, key string, dst *int) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyFloat(lookup LookupFunc, key string, dst *float64) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyLogLevel(lookup LookupFunc, key string, dst *slog.Level) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		*dst = slog.LevelDebug
	case "info":
		*dst = slog.LevelInfo
	case "warn", "warning":
		*dst = slog.LevelWarn
	case "error":
		*dst = slog.LevelError
	default:
		return fmt.Errorf("invalid %s: %q", key, raw)
	}
	return nil
}

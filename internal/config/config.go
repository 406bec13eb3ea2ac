// Package config loads scriptflow settings from an optional YAML file and
// SCRIPTFLOW_* environment variables. Command-line flags override both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "scriptflow.yaml"

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "SCRIPTFLOW_"

// Config is the resolved application configuration.
type Config struct {
	// Flow is an authored table file (.yaml/.json) or a markdown directory.
	Flow string `mapstructure:"flow"`
	// Source is a text file fed to the importer. It wins over Flow when readable.
	Source   string `mapstructure:"source"`
	Strict   bool   `mapstructure:"strict"`
	LogLevel string `mapstructure:"log_level"`
	// SessionDir keeps chat sessions as JSON files when Redis is not configured.
	SessionDir string `mapstructure:"session_dir"`

	HTTP     HTTPConfig     `mapstructure:"http"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Security SecurityConfig `mapstructure:"security"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// RedisConfig configures the shared session store. An empty Addr keeps sessions in memory.
type RedisConfig struct {
	Addr    string        `mapstructure:"addr"`
	Prefix  string        `mapstructure:"prefix"`
	TTL     time.Duration `mapstructure:"ttl"`
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

// SecurityConfig protects persisted sessions.
type SecurityConfig struct {
	// EncryptionKey is a base64 AES-256 key. Empty stores sessions in the clear.
	EncryptionKey string `mapstructure:"encryption_key"`
	// FallbackKeys still open sessions sealed before a key rotation.
	FallbackKeys []string `mapstructure:"fallback_keys"`
	// RedactPII masks e-mail addresses and phone numbers in stored answers.
	RedactPII      bool     `mapstructure:"redact_pii"`
	RedactPatterns []string `mapstructure:"redact_patterns"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Strict:     true,
		LogLevel:   "info",
		SessionDir: filepath.Join(".scriptflow", "sessions"),
		HTTP:       HTTPConfig{Addr: ":8080"},
		Redis: RedisConfig{
			Prefix:  "scriptflow:session:",
			TTL:     24 * time.Hour,
			LockTTL: 30 * time.Second,
		},
	}
}

// envKeys maps environment variables to dotted config keys.
var envKeys = map[string]string{
	"FLOW":           "flow",
	"SOURCE":         "source",
	"STRICT":         "strict",
	"LOG_LEVEL":      "log_level",
	"SESSION_DIR":    "session_dir",
	"HTTP_ADDR":      "http.addr",
	"REDIS_ADDR":     "redis.addr",
	"REDIS_PREFIX":   "redis.prefix",
	"REDIS_TTL":      "redis.ttl",
	"REDIS_LOCK_TTL": "redis.lock_ttl",
	"ENCRYPTION_KEY": "security.encryption_key",
	"REDACT_PII":     "security.redact_pii",
}

// Load resolves the configuration: defaults, then the file at path (or
// DefaultFile when path is empty and it exists), then the environment.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	raw := make(map[string]any)

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
		}
		if raw == nil {
			raw = make(map[string]any)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	for suffix, key := range envKeys {
		if v, ok := lookup(EnvPrefix + suffix); ok {
			set(raw, key, v)
		}
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// set writes value at a dotted key, creating nested maps.
func set(raw map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	m := raw
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// Package config loads process configuration from the environment, optionally seeded
// from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/WebDbAssistant/internal/db"
	"github.com/JonMunkholm/WebDbAssistant/internal/llm"
)

// LookupFunc resolves one environment key.
type LookupFunc func(string) (string, bool)

type Config struct {
	HTTP          HTTPConfig
	Database      db.Descriptor
	LLM           LLMConfig
	Observability ObservabilityConfig
}

type HTTPConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LLMConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	BaseURL     string
	AutoExecute bool
}

type ObservabilityConfig struct {
	LogLevel slog.Level
	LogJSON  bool
}

// LoadDotEnv loads path (".env" when empty) into the process environment. A missing
// file is not an error; variables already set win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func LoadFromEnv() (Config, error) {
	return Load(os.LookupEnv)
}

func Load(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	cfg := defaults()

	if err := applyString(lookup, "ADDR", &cfg.HTTP.Address); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return Config{}, err
	}

	var driver string
	if err := applyString(lookup, "DB_DRIVER", &driver); err != nil {
		return Config{}, err
	}
	parsed, err := db.ParseDriver(driver)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_DRIVER: %w", err)
	}
	cfg.Database.Driver = parsed
	if err := applyString(lookup, "DB_HOST", &cfg.Database.Host); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "DB_PORT", &cfg.Database.Port); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "DB_USER", &cfg.Database.User); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "DB_PASSWORD", &cfg.Database.Password); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "DB_NAME", &cfg.Database.Database); err != nil {
		return Config{}, err
	}

	if err := applyString(lookup, "LLM_API_KEY", &cfg.LLM.APIKey); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "GROQ_API_KEY", &cfg.LLM.APIKey); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "LLM_MODEL", &cfg.LLM.Model); err != nil {
		return Config{}, err
	}
	if err := applyFloat(lookup, "LLM_TEMPERATURE", &cfg.LLM.Temperature); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "LLM_BASE_URL", &cfg.LLM.BaseURL); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "AUTO_EXECUTE", &cfg.LLM.AutoExecute); err != nil {
		return Config{}, err
	}

	if err := applyBool(lookup, "LOG_JSON", &cfg.Observability.LogJSON); err != nil {
		return Config{}, err
	}
	if err := applyLogLevel(lookup, "LOG_LEVEL", &cfg.Observability.LogLevel); err != nil {
		return Config{}, err
	}

	if cfg.HTTP.Address == "" {
		return Config{}, fmt.Errorf("http address is required")
	}
	if !llm.IsSupportedModel(cfg.LLM.Model) {
		return Config{}, fmt.Errorf("unsupported LLM_MODEL: %q", cfg.LLM.Model)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 1 {
		return Config{}, fmt.Errorf("LLM_TEMPERATURE must be between 0 and 1, got %v", cfg.LLM.Temperature)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Database: db.Descriptor{
			Driver: db.DriverMySQL,
			Host:   "localhost",
		},
		LLM: LLMConfig{
			Model:       llm.DefaultModel,
			Temperature: llm.DefaultTemperature,
			BaseURL:     llm.DefaultBaseURL,
			AutoExecute: true,
		},
		Observability: ObservabilityConfig{
			LogLevel: slog.LevelInfo,
		},
	}
}

// applyString leaves dst untouched when key is unset or blank.
func applyString(lookup LookupFunc, key string, dst *string) error {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
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
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = level
	return nil
}

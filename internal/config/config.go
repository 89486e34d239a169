// Package config provides configuration management for the transcriber.
// It loads environment variables from .env, an optional YAML config file,
// and applies environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical/pdf-transcriber/internal/domain"
)

// Default extraction settings. Batch size and delay match the CLI defaults.
const (
	DefaultModel            = "gemini-2.5-pro"
	DefaultPagesPerBatch    = 30
	DefaultDelaySeconds     = 10
	DefaultSectionThreshold = 2000
	DefaultBaseURL          = "https://generativelanguage.googleapis.com"
)

// Config holds all configuration for the transcriber.
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ExtractionConfig holds batch and model settings.
type ExtractionConfig struct {
	Model            string `yaml:"model"`
	PagesPerBatch    int    `yaml:"pages_per_batch"`
	DelaySeconds     int    `yaml:"delay_seconds"`
	SectionThreshold int    `yaml:"section_threshold"`
	BaseURL          string `yaml:"base_url"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from .env, an optional YAML file, and the
// environment. Pass an empty path to skip the YAML file unless
// transcriber.yaml exists in the working directory.
func Load(path string) (*Config, error) {
	// Load .env if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path == "" {
		if _, err := os.Stat("transcriber.yaml"); err == nil {
			path = "transcriber.yaml"
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.InvalidConfiguration(fmt.Sprintf("read config file %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.InvalidConfiguration(fmt.Sprintf("parse config file %s", path), err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			Model:            DefaultModel,
			PagesPerBatch:    DefaultPagesPerBatch,
			DelaySeconds:     DefaultDelaySeconds,
			SectionThreshold: DefaultSectionThreshold,
			BaseURL:          DefaultBaseURL,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Extraction.PagesPerBatch < 1 {
		return domain.InvalidConfiguration(
			fmt.Sprintf("pages_per_batch must be at least 1, got %d", c.Extraction.PagesPerBatch), nil)
	}
	if c.Extraction.DelaySeconds < 0 {
		return domain.InvalidConfiguration(
			fmt.Sprintf("delay_seconds must not be negative, got %d", c.Extraction.DelaySeconds), nil)
	}
	if c.Extraction.SectionThreshold < 1 {
		return domain.InvalidConfiguration(
			fmt.Sprintf("section_threshold must be positive, got %d", c.Extraction.SectionThreshold), nil)
	}
	if c.Extraction.Model == "" {
		return domain.InvalidConfiguration("model must not be empty", nil)
	}
	if c.Extraction.BaseURL == "" {
		return domain.InvalidConfiguration("base_url must not be empty", nil)
	}
	return nil
}

// GetAPIKey returns the model API key from the environment. GEMINI_API_KEY
// takes precedence; GOOGLE_API_KEY is accepted for compatibility.
func (c *Config) GetAPIKey() (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		return key, nil
	}
	return "", domain.MissingCredential("GEMINI_API_KEY is not set (create a .env file with GEMINI_API_KEY=<your key>)", nil)
}

// Delay returns the inter-window delay as a duration.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.Extraction.DelaySeconds) * time.Second
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.Extraction.Model = v
	}
	if v := os.Getenv("TRANSCRIBER_PAGES_PER_BATCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Extraction.PagesPerBatch = n
		}
	}
	if v := os.Getenv("TRANSCRIBER_DELAY_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Extraction.DelaySeconds = n
		}
	}
	if v := os.Getenv("TRANSCRIBER_SECTION_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Extraction.SectionThreshold = n
		}
	}
	if v := os.Getenv("TRANSCRIBER_BASE_URL"); v != "" {
		cfg.Extraction.BaseURL = v
	}
	if v := os.Getenv("TRANSCRIBER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TRANSCRIBER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

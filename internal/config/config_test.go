package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spherical/pdf-transcriber/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Extraction.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", cfg.Extraction.Model)
	}
	if cfg.Extraction.PagesPerBatch != 30 {
		t.Errorf("PagesPerBatch = %d, want 30", cfg.Extraction.PagesPerBatch)
	}
	if cfg.Extraction.DelaySeconds != 10 {
		t.Errorf("DelaySeconds = %d, want 10", cfg.Extraction.DelaySeconds)
	}
	if cfg.Extraction.SectionThreshold != 2000 {
		t.Errorf("SectionThreshold = %d, want 2000", cfg.Extraction.SectionThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero pages per batch", func(c *Config) { c.Extraction.PagesPerBatch = 0 }},
		{"negative delay", func(c *Config) { c.Extraction.DelaySeconds = -1 }},
		{"zero section threshold", func(c *Config) { c.Extraction.SectionThreshold = 0 }},
		{"empty model", func(c *Config) { c.Extraction.Model = "" }},
		{"empty base url", func(c *Config) { c.Extraction.BaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !domain.IsKind(err, domain.KindInvalidConfiguration) {
				t.Errorf("error kind = %v, want InvalidConfiguration", err)
			}
		})
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcriber.yaml")
	data := `extraction:
  model: gemini-2.0-flash
  pages_per_batch: 15
  delay_seconds: 5
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Extraction.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", cfg.Extraction.Model)
	}
	if cfg.Extraction.PagesPerBatch != 15 {
		t.Errorf("PagesPerBatch = %d, want 15", cfg.Extraction.PagesPerBatch)
	}
	if cfg.Extraction.DelaySeconds != 5 {
		t.Errorf("DelaySeconds = %d, want 5", cfg.Extraction.DelaySeconds)
	}
	// Unset keys keep their defaults.
	if cfg.Extraction.SectionThreshold != DefaultSectionThreshold {
		t.Errorf("SectionThreshold = %d, want default", cfg.Extraction.SectionThreshold)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nowhere.yaml"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfiguration) {
		t.Errorf("error kind = %v, want InvalidConfiguration", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LLM_MODEL", "gemini-exp")
	t.Setenv("TRANSCRIBER_PAGES_PER_BATCH", "7")
	t.Setenv("TRANSCRIBER_DELAY_SECONDS", "3")
	t.Setenv("TRANSCRIBER_SECTION_THRESHOLD", "1500")
	t.Setenv("TRANSCRIBER_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Extraction.Model != "gemini-exp" {
		t.Errorf("Model = %q", cfg.Extraction.Model)
	}
	if cfg.Extraction.PagesPerBatch != 7 {
		t.Errorf("PagesPerBatch = %d, want 7", cfg.Extraction.PagesPerBatch)
	}
	if cfg.Extraction.DelaySeconds != 3 {
		t.Errorf("DelaySeconds = %d, want 3", cfg.Extraction.DelaySeconds)
	}
	if cfg.Extraction.SectionThreshold != 1500 {
		t.Errorf("SectionThreshold = %d, want 1500", cfg.Extraction.SectionThreshold)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadInvalidEnvOverrideRejected(t *testing.T) {
	t.Setenv("TRANSCRIBER_PAGES_PER_BATCH", "zero")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	// Non-numeric values are ignored, not applied.
	if cfg.Extraction.PagesPerBatch != DefaultPagesPerBatch {
		t.Errorf("PagesPerBatch = %d, want default", cfg.Extraction.PagesPerBatch)
	}
}

func TestGetAPIKey(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("gemini key preferred", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gem-key")
		t.Setenv("GOOGLE_API_KEY", "goo-key")
		key, err := cfg.GetAPIKey()
		if err != nil {
			t.Fatalf("GetAPIKey returned error: %v", err)
		}
		if key != "gem-key" {
			t.Errorf("key = %q, want gem-key", key)
		}
	})

	t.Run("google key fallback", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "goo-key")
		key, err := cfg.GetAPIKey()
		if err != nil {
			t.Fatalf("GetAPIKey returned error: %v", err)
		}
		if key != "goo-key" {
			t.Errorf("key = %q, want goo-key", key)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "")
		_, err := cfg.GetAPIKey()
		if err == nil {
			t.Fatal("expected error")
		}
		if !domain.IsKind(err, domain.KindMissingCredential) {
			t.Errorf("error kind = %v, want MissingCredential", err)
		}
	})
}

func TestDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extraction.DelaySeconds = 10
	if got := cfg.Delay(); got != 10*time.Second {
		t.Errorf("Delay() = %v, want 10s", got)
	}
}

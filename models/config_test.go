package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Portal.URL == "" {
		t.Error("default portal URL should be set")
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("default model = %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.SingleCallThreshold != 30000 {
		t.Errorf("default threshold = %d", cfg.Gemini.SingleCallThreshold)
	}
	if cfg.WaitTimeout.Std() != 20*time.Second {
		t.Errorf("default wait timeout = %v", cfg.WaitTimeout.Std())
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
portal:
  url: https://city.example.org/minutes
download:
  max_downloads: 5
wait_timeout: 45s
headless: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Portal.URL != "https://city.example.org/minutes" {
		t.Errorf("portal URL = %q", cfg.Portal.URL)
	}
	if cfg.Download.MaxDownloads != 5 {
		t.Errorf("max downloads = %d", cfg.Download.MaxDownloads)
	}
	if cfg.WaitTimeout.Std() != 45*time.Second {
		t.Errorf("wait timeout = %v", cfg.WaitTimeout.Std())
	}
	if cfg.Headless {
		t.Error("headless should be overridden to false")
	}
	// Untouched fields keep their defaults.
	if cfg.Download.FirstButtonSelector == "" {
		t.Error("selector defaults should survive a partial config")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("portal: [not a map"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() expected error for malformed YAML")
	}
}

func TestResolveAPIKey(t *testing.T) {
	g := &GeminiConfig{APIKey: "from-config"}
	if got := g.ResolveAPIKey(); got != "from-config" {
		t.Errorf("ResolveAPIKey() = %q", got)
	}

	t.Setenv("GOOGLE_API_KEY", "from-env")
	g = &GeminiConfig{}
	if got := g.ResolveAPIKey(); got != "from-env" {
		t.Errorf("ResolveAPIKey() = %q, want env fallback", got)
	}
}

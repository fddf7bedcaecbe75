package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.HTTP.Timeout != 10*time.Second || cfg.HTTP.Delay != 200*time.Millisecond {
		t.Errorf("HTTP = %+v", cfg.HTTP)
	}
	if cfg.HTTP.UserAgent != "Mozilla/5.0" {
		t.Errorf("UserAgent = %q", cfg.HTTP.UserAgent)
	}
	if cfg.Stores.Cumulative != "master_jobs.csv" || cfg.Stores.Delta != "delta_jobs.csv" {
		t.Errorf("Stores = %+v", cfg.Stores)
	}
	if len(cfg.Companies) != 14 {
		t.Fatalf("Companies = %d, want 14", len(cfg.Companies))
	}
	if c := cfg.Companies[0]; c.Provider != "lever" || c.Slug != "sentry" {
		t.Errorf("first company = %+v", c)
	}
	if c := cfg.Companies[7]; c.Provider != "ashby" || c.Slug != "mistralai" {
		t.Errorf("first ashby company = %+v", c)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
stores:
  cumulative: data/all.csv
  delta: data/new.csv
  history: data/history.db
http:
  timeout: 5s
  delay: 1s
  user_agent: jobdelta/1.0
preview_limit: 3
companies:
  - provider: lever
    slug: acme
  - provider: Ashby
    slug: " beta "
    enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Timeout != 5*time.Second || cfg.HTTP.Delay != time.Second || cfg.HTTP.UserAgent != "jobdelta/1.0" {
		t.Errorf("HTTP = %+v", cfg.HTTP)
	}
	if cfg.Stores.Cumulative != "data/all.csv" || cfg.Stores.Delta != "data/new.csv" || cfg.Stores.History != "data/history.db" {
		t.Errorf("Stores = %+v", cfg.Stores)
	}
	if cfg.PreviewLimit != 3 {
		t.Errorf("PreviewLimit = %d, want 3", cfg.PreviewLimit)
	}
	if len(cfg.Companies) != 2 {
		t.Fatalf("Companies = %+v", cfg.Companies)
	}
	if !cfg.Companies[0].Enabled {
		t.Error("enabled should default to true")
	}
	if c := cfg.Companies[1]; c.Provider != "ashby" || c.Slug != "beta" || c.Enabled {
		t.Errorf("second company = %+v", c)
	}
	if got := cfg.EnabledCompanies(); len(got) != 1 || got[0].Slug != "acme" {
		t.Errorf("EnabledCompanies = %+v", got)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Companies) != 14 || cfg.PreviewLimit != DefaultPreviewLimit {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("JOBDELTA_TEST_WEBHOOK", "https://hooks.slack.com/services/T/B/X")
	cfg, err := Load(writeConfig(t, `
notification:
  type: slack
  webhook_url: ${JOBDELTA_TEST_WEBHOOK}
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notification.WebhookURL != "https://hooks.slack.com/services/T/B/X" {
		t.Errorf("WebhookURL = %q", cfg.Notification.WebhookURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if len(cfg.Companies) != 14 {
		t.Errorf("expected default companies, got %d", len(cfg.Companies))
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "http: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero timeout", "http:\n  timeout: 0s\n"},
		{"bad duration", "http:\n  delay: soon\n"},
		{"negative delay", "http:\n  delay: -1s\n"},
		{"unknown provider", "companies:\n  - provider: greenhouse\n    slug: acme\n"},
		{"missing slug", "companies:\n  - provider: lever\n"},
		{"none enabled", "companies:\n  - provider: lever\n    slug: acme\n    enabled: false\n"},
		{"same store paths", "stores:\n  cumulative: jobs.csv\n  delta: jobs.csv\n"},
		{"slack without webhook", "notification:\n  type: slack\n"},
		{"slack bad webhook", "notification:\n  type: slack\n  webhook_url: https://example.com/hook\n"},
		{"unknown notifier", "notification:\n  type: email\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("Load: expected validation error")
			}
		})
	}
}

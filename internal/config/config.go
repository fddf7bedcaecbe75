package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the constants the scraper has always shipped with.
const (
	DefaultCumulativePath = "master_jobs.csv"
	DefaultDeltaPath      = "delta_jobs.csv"
	DefaultTimeout        = 10 * time.Second
	DefaultDelay          = 200 * time.Millisecond
	DefaultUserAgent      = "Mozilla/5.0"
	DefaultPreviewLimit   = 10
)

const (
	providerLever = "lever"
	providerAshby = "ashby"
	slackPrefix   = "https://hooks.slack.com/"
)

var defaultLeverSlugs = []string{"sentry", "zapier", "remote", "retool", "clearbit", "pilot", "cerebras"}

var defaultAshbySlugs = []string{"mistralai", "cohere", "runway", "adept", "instadeep", "character", "luma"}

// Config is the root configuration for a jobdelta run.
type Config struct {
	Stores       StoreConfig
	HTTP         HTTPConfig
	PreviewLimit int
	Companies    []CompanyConfig
	Notification NotificationConfig
	Log          LogConfig
}

// StoreConfig holds the record store locations.
type StoreConfig struct {
	Cumulative string // every record ever captured
	Delta      string // records captured by runs, never cleared
	History    string // optional SQLite run log; empty disables it
}

// HTTPConfig controls requests to the job boards.
type HTTPConfig struct {
	Timeout   time.Duration // per-request bound
	UserAgent string
	Delay     time.Duration // fixed pause after every company fetch
}

// CompanyConfig describes a single board to poll.
type CompanyConfig struct {
	Provider string
	Slug     string
	Enabled  bool
}

// NotificationConfig controls which extra notifier is used besides the console preview.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "", "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// LogConfig enables a rotating log file next to stdout logging.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Stores       rawStoreConfig     `yaml:"stores"`
	HTTP         rawHTTPConfig      `yaml:"http"`
	PreviewLimit *int               `yaml:"preview_limit"`
	Companies    []rawCompanyConfig `yaml:"companies"`
	Notification NotificationConfig `yaml:"notification"`
	Log          LogConfig          `yaml:"log"`
}

type rawStoreConfig struct {
	Cumulative string `yaml:"cumulative"`
	Delta      string `yaml:"delta"`
	History    string `yaml:"history"`
}

type rawHTTPConfig struct {
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
	Delay     string `yaml:"delay"`
}

type rawCompanyConfig struct {
	Provider string `yaml:"provider"`
	Slug     string `yaml:"slug"`
	Enabled  *bool  `yaml:"enabled"`
}

// Default returns the built-in configuration: the seven Lever boards followed
// by the seven Ashby boards, CSV stores in the working directory.
func Default() *Config {
	var companies []CompanyConfig
	for _, s := range defaultLeverSlugs {
		companies = append(companies, CompanyConfig{Provider: providerLever, Slug: s, Enabled: true})
	}
	for _, s := range defaultAshbySlugs {
		companies = append(companies, CompanyConfig{Provider: providerAshby, Slug: s, Enabled: true})
	}

	return &Config{
		Stores: StoreConfig{
			Cumulative: DefaultCumulativePath,
			Delta:      DefaultDeltaPath,
		},
		HTTP: HTTPConfig{
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
			Delay:     DefaultDelay,
		},
		PreviewLimit: DefaultPreviewLimit,
		Companies:    companies,
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

// Load reads and parses the YAML config file at path, fills unset fields from
// Default, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse builds a Config from YAML bytes. Environment variables are expanded first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if raw.Stores.Cumulative != "" {
		cfg.Stores.Cumulative = raw.Stores.Cumulative
	}
	if raw.Stores.Delta != "" {
		cfg.Stores.Delta = raw.Stores.Delta
	}
	cfg.Stores.History = raw.Stores.History

	var err error
	if raw.HTTP.Timeout != "" {
		cfg.HTTP.Timeout, err = time.ParseDuration(raw.HTTP.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse http.timeout %q: %w", raw.HTTP.Timeout, err)
		}
	}
	if raw.HTTP.Delay != "" {
		cfg.HTTP.Delay, err = time.ParseDuration(raw.HTTP.Delay)
		if err != nil {
			return nil, fmt.Errorf("parse http.delay %q: %w", raw.HTTP.Delay, err)
		}
	}
	if raw.HTTP.UserAgent != "" {
		cfg.HTTP.UserAgent = raw.HTTP.UserAgent
	}

	if raw.PreviewLimit != nil {
		cfg.PreviewLimit = *raw.PreviewLimit
	}

	if raw.Companies != nil {
		cfg.Companies = make([]CompanyConfig, 0, len(raw.Companies))
		for _, rc := range raw.Companies {
			enabled := true
			if rc.Enabled != nil {
				enabled = *rc.Enabled
			}
			cfg.Companies = append(cfg.Companies, CompanyConfig{
				Provider: strings.ToLower(strings.TrimSpace(rc.Provider)),
				Slug:     strings.TrimSpace(rc.Slug),
				Enabled:  enabled,
			})
		}
	}

	cfg.Notification = raw.Notification

	if raw.Log.File != "" {
		cfg.Log.File = raw.Log.File
	}
	if raw.Log.MaxSizeMB > 0 {
		cfg.Log.MaxSizeMB = raw.Log.MaxSizeMB
	}
	if raw.Log.MaxBackups > 0 {
		cfg.Log.MaxBackups = raw.Log.MaxBackups
	}
	if raw.Log.MaxAgeDays > 0 {
		cfg.Log.MaxAgeDays = raw.Log.MaxAgeDays
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EnabledCompanies returns the enabled boards in configured order.
func (c *Config) EnabledCompanies() []CompanyConfig {
	var out []CompanyConfig
	for _, co := range c.Companies {
		if co.Enabled {
			out = append(out, co)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.Delay < 0 {
		return fmt.Errorf("http.delay must not be negative, got %v", cfg.HTTP.Delay)
	}
	if cfg.PreviewLimit < 0 {
		return fmt.Errorf("preview_limit must not be negative, got %d", cfg.PreviewLimit)
	}
	if cfg.Stores.Cumulative == cfg.Stores.Delta {
		return fmt.Errorf("stores.cumulative and stores.delta must differ, both are %q", cfg.Stores.Cumulative)
	}

	enabled := 0
	for i, c := range cfg.Companies {
		if c.Provider != providerLever && c.Provider != providerAshby {
			return fmt.Errorf("companies[%d]: unsupported provider %q", i, c.Provider)
		}
		if c.Slug == "" {
			return fmt.Errorf("companies[%d]: slug is required", i)
		}
		if c.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one company must be enabled")
	}

	switch cfg.Notification.Type {
	case "", "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}

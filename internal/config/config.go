// Package config loads court-calendar settings.
//
// Values come from defaults, then a YAML file, then COURT_CALENDAR_* environment
// variables. Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/pfrederiksen/court-calendar/internal/calendar"
	"github.com/pfrederiksen/court-calendar/internal/scraper"
	"github.com/pfrederiksen/court-calendar/internal/storage"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "COURT_CALENDAR_"

const (
	DefaultListenAddr = ":8000"
	DefaultSchedule   = "0 7 * * 1-5"
	DefaultLogLevel   = "info"
)

// Config holds all runtime settings.
type Config struct {
	BaseURL       string               `yaml:"base_url"`
	UserAgent     string               `yaml:"user_agent"`
	Timeout       time.Duration        `yaml:"timeout"`
	Timezone      string               `yaml:"timezone"`
	DataDir       string               `yaml:"data_dir"`
	ListenAddr    string               `yaml:"listen_addr"`
	ContactEmail  string               `yaml:"contact_email"`
	ReferenceLink string               `yaml:"reference_link"`
	Schedule      string               `yaml:"schedule"`
	LogLevel      string               `yaml:"log_level"`
	WebhookURL    string               `yaml:"webhook_url"`
	ICSDir        string               `yaml:"ics_dir"`
	Search        scraper.SearchParams `yaml:"search"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:    scraper.SearchURL,
		UserAgent:  scraper.UserAgent,
		Timeout:    scraper.Timeout,
		Timezone:   calendar.DefaultTimezone,
		DataDir:    storage.DefaultDataDir,
		ListenAddr: DefaultListenAddr,
		Schedule:   DefaultSchedule,
		LogLevel:   DefaultLogLevel,
	}
}

// DefaultPath is ~/.config/court-calendar/config.yaml, or "" without a home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "court-calendar", "config.yaml")
}

// Load builds the configuration from defaults, the file at path and the environment.
// An empty path falls back to DefaultPath, which may be absent. An explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		err := LoadFile(path, &cfg)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return cfg, err
		}
	}

	ApplyEnv(&cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto cfg. Keys absent from the file
// keep their current values.
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse yaml %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any COURT_CALENDAR_* variables that getenv returns
// non-empty. Unparseable durations are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if cfg == nil {
		return
	}

	set := func(dst *string, name string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + name)); v != "" {
			*dst = v
		}
	}

	set(&cfg.BaseURL, "BASE_URL")
	set(&cfg.UserAgent, "USER_AGENT")
	set(&cfg.Timezone, "TIMEZONE")
	set(&cfg.DataDir, "DATA_DIR")
	set(&cfg.ListenAddr, "LISTEN_ADDR")
	set(&cfg.ContactEmail, "CONTACT_EMAIL")
	set(&cfg.ReferenceLink, "REFERENCE_LINK")
	set(&cfg.Schedule, "SCHEDULE")
	set(&cfg.LogLevel, "LOG_LEVEL")
	set(&cfg.WebhookURL, "WEBHOOK_URL")
	set(&cfg.ICSDir, "ICS_DIR")
	set(&cfg.Search.FirstName, "FIRST_NAME")
	set(&cfg.Search.LastName, "LAST_NAME")
	set(&cfg.Search.Date, "DATE")
	set(&cfg.Search.Location, "LOCATION")

	if s := strings.TrimSpace(getenv(EnvPrefix + "TIMEOUT")); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.Timeout = d
		}
	}
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Annotations returns the calendar annotations configured for every export.
func (c Config) Annotations() calendar.Annotations {
	return calendar.Annotations{
		ReferenceLink: c.ReferenceLink,
		ContactEmail:  c.ContactEmail,
	}
}

// ScraperOptions returns the options that point a scraper at the configured site.
func (c Config) ScraperOptions() []scraper.Option {
	return []scraper.Option{
		scraper.WithBaseURL(c.BaseURL),
		scraper.WithUserAgent(c.UserAgent),
		scraper.WithTimeout(c.Timeout),
	}
}

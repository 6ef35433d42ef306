package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReminderConfig controls the "content due" reminder loop.
type ReminderConfig struct {
	// Enabled toggles the reminder scheduler in `serve`.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Cron is a 5-field cron spec (e.g. "* * * * *") for reminder ticks.
	Cron string `yaml:"cron" json:"cron"`
	// LookaheadMinutes is how far ahead of its scheduled time an item is
	// announced.
	LookaheadMinutes int `yaml:"lookahead_minutes" json:"lookahead_minutes"`
}

// RateLimitConfig bounds /api/ traffic with a token bucket.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" json:"rps"`
	Burst int     `yaml:"burst" json:"burst"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used for calendar days and "today"
	// (e.g. "Asia/Seoul"). Empty means the host's local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// DefaultView is the initial view mode: day, week, month or year.
	DefaultView string `yaml:"default_view" json:"default_view"`

	// SlotStartHour / SlotEndHour bound the hourly rows of the week view.
	SlotStartHour int `yaml:"slot_start_hour" json:"slot_start_hour"`
	SlotEndHour   int `yaml:"slot_end_hour" json:"slot_end_hour"`

	Reminder  ReminderConfig  `yaml:"reminder" json:"reminder"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// SeedICS optionally points to an .ics file whose events are imported
	// as content on startup.
	SeedICS string `yaml:"seed_ics,omitempty" json:"seed_ics,omitempty"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

const (
	defaultListen        = "127.0.0.1:8080"
	defaultView          = "month"
	defaultSlotStartHour = 6
	defaultSlotEndHour   = 22
	defaultReminderCron  = "* * * * *"
	defaultLookahead     = 15
	defaultRPS           = 20
	defaultBurst         = 40
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        defaultListen,
		Timezone:      "",
		DefaultView:   defaultView,
		SlotStartHour: defaultSlotStartHour,
		SlotEndHour:   defaultSlotEndHour,
		Reminder: ReminderConfig{
			Enabled:          true,
			Cron:             defaultReminderCron,
			LookaheadMinutes: defaultLookahead,
		},
		RateLimit: RateLimitConfig{RPS: defaultRPS, Burst: defaultBurst},
		LogLevel:  "info",
		LogFormat: "text",
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}

	switch strings.ToLower(c.DefaultView) {
	case "day", "week", "month", "year":
		c.DefaultView = strings.ToLower(c.DefaultView)
	default:
		c.DefaultView = defaultView
	}

	// Slot hours must be a valid, ordered range within a day.
	if c.SlotStartHour < 0 || c.SlotStartHour > 23 || c.SlotEndHour < 0 || c.SlotEndHour > 23 ||
		c.SlotStartHour > c.SlotEndHour || (c.SlotStartHour == 0 && c.SlotEndHour == 0) {
		c.SlotStartHour = defaultSlotStartHour
		c.SlotEndHour = defaultSlotEndHour
	}

	if c.Reminder.Cron == "" {
		c.Reminder.Cron = defaultReminderCron
	}
	if c.Reminder.LookaheadMinutes <= 0 {
		c.Reminder.LookaheadMinutes = defaultLookahead
	}

	if c.RateLimit.RPS <= 0 {
		c.RateLimit.RPS = defaultRPS
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = defaultBurst
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".contentcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// Package config loads the service configuration from an optional YAML file
// with environment-variable overrides layered on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures every tunable of the booking service.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// SQLiteDSN locates the system-of-record database.
	SQLiteDSN string `yaml:"sqlite_dsn"`

	// SessionTTL bounds how long an issued session token stays valid.
	SessionTTL time.Duration `yaml:"session_ttl"`

	// Timezone is the IANA identifier of the calendar engine's fixed target
	// timezone. All stored timestamps normalize into this zone.
	Timezone string `yaml:"timezone"`

	// CheckInHour and CheckOutHour are substituted when a reservation
	// timestamp carries no explicit time.
	CheckInHour  int `yaml:"check_in_hour"`
	CheckOutHour int `yaml:"check_out_hour"`

	// TickCron drives the periodic maintenance tick (indicator refresh,
	// session pruning). Cron syntax; once per minute by default since the
	// grid's smallest row unit is one hour.
	TickCron string `yaml:"tick_cron"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Listen:       ":8080",
		SQLiteDSN:    "file:staybook.db?_foreign_keys=on",
		SessionTTL:   24 * time.Hour,
		Timezone:     "Asia/Singapore",
		CheckInHour:  14,
		CheckOutHour: 12,
		TickCron:     "@every 1m",
	}
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), applies environment overrides, then validates. Invalid
// entries are accumulated and reported together.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// First run without a file is fine; defaults apply.
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	invalid := applyEnvOverrides(&cfg)
	invalid = append(invalid, cfg.normalize()...)

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) []string {
	invalid := make([]string, 0, 2)

	if v := strings.TrimSpace(os.Getenv("STAYBOOK_LISTEN")); v != "" {
		cfg.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("STAYBOOK_SQLITE_DSN")); v != "" {
		cfg.SQLiteDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("STAYBOOK_SESSION_TTL")); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "STAYBOOK_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}
	if v := strings.TrimSpace(os.Getenv("STAYBOOK_TIMEZONE")); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(os.Getenv("STAYBOOK_CHECK_IN_HOUR")); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil {
			invalid = append(invalid, "STAYBOOK_CHECK_IN_HOUR")
		} else {
			cfg.CheckInHour = hour
		}
	}
	if v := strings.TrimSpace(os.Getenv("STAYBOOK_CHECK_OUT_HOUR")); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil {
			invalid = append(invalid, "STAYBOOK_CHECK_OUT_HOUR")
		} else {
			cfg.CheckOutHour = hour
		}
	}
	if v := strings.TrimSpace(os.Getenv("STAYBOOK_TICK_CRON")); v != "" {
		cfg.TickCron = v
	}

	return invalid
}

// normalize validates the assembled configuration and fills gaps left by a
// partially written file.
func (c *Config) normalize() []string {
	invalid := make([]string, 0, 2)

	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.SQLiteDSN == "" {
		c.SQLiteDSN = Default().SQLiteDSN
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Singapore"
	}
	if c.TickCron == "" {
		c.TickCron = "@every 1m"
	}
	if c.CheckInHour < 0 || c.CheckInHour > 23 {
		invalid = append(invalid, "check_in_hour")
	}
	if c.CheckOutHour < 1 || c.CheckOutHour > 24 {
		invalid = append(invalid, "check_out_hour")
	}

	return invalid
}

// Location resolves the configured timezone, falling back to the fixed UTC+8
// zone the engine defaults to when the IANA database is unavailable.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("SGT", 8*60*60)
	}
	return loc
}

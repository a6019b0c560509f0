package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults apply when no file exists", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Listen != ":8080" {
			t.Fatalf("expected default listen address, got %q", cfg.Listen)
		}
		if cfg.CheckInHour != 14 || cfg.CheckOutHour != 12 {
			t.Fatalf("expected default substitution hours, got %d/%d", cfg.CheckInHour, cfg.CheckOutHour)
		}
		if cfg.TickCron != "@every 1m" {
			t.Fatalf("expected default tick cron, got %q", cfg.TickCron)
		}
	})

	t.Run("reads the yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "staybook.yaml")
		content := "listen: \":9090\"\ntimezone: Asia/Tokyo\ncheck_in_hour: 15\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Listen != ":9090" {
			t.Fatalf("expected listen from file, got %q", cfg.Listen)
		}
		if cfg.Timezone != "Asia/Tokyo" {
			t.Fatalf("expected timezone from file, got %q", cfg.Timezone)
		}
		if cfg.CheckInHour != 15 {
			t.Fatalf("expected check-in hour 15, got %d", cfg.CheckInHour)
		}
		// Untouched fields keep their defaults.
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected default session TTL, got %v", cfg.SessionTTL)
		}
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "staybook.yaml")
		if err := os.WriteFile(path, []byte("listen: \":9090\"\n"), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		t.Setenv("STAYBOOK_LISTEN", ":7070")
		t.Setenv("STAYBOOK_SESSION_TTL", "2h")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Listen != ":7070" {
			t.Fatalf("expected env override, got %q", cfg.Listen)
		}
		if cfg.SessionTTL != 2*time.Hour {
			t.Fatalf("expected 2h TTL, got %v", cfg.SessionTTL)
		}
	})

	t.Run("accumulates invalid values", func(t *testing.T) {
		t.Setenv("STAYBOOK_SESSION_TTL", "not-a-duration")
		t.Setenv("STAYBOOK_CHECK_IN_HOUR", "99")

		if _, err := Load(""); err == nil {
			t.Fatal("expected an error for invalid values")
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		if err := os.WriteFile(path, []byte("listen: [unterminated"), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatal("expected a parse error")
		}
	})
}

func TestConfig_Location(t *testing.T) {
	t.Parallel()

	t.Run("resolves a known zone", func(t *testing.T) {
		t.Parallel()

		cfg := Config{Timezone: "Asia/Tokyo"}
		if got := cfg.Location().String(); got != "Asia/Tokyo" {
			t.Fatalf("expected Asia/Tokyo, got %q", got)
		}
	})

	t.Run("falls back to a fixed UTC+8 zone", func(t *testing.T) {
		t.Parallel()

		cfg := Config{Timezone: "Not/AZone"}
		_, offset := time.Now().In(cfg.Location()).Zone()
		if offset != 8*60*60 {
			t.Fatalf("expected UTC+8 fallback, got offset %d", offset)
		}
	})
}

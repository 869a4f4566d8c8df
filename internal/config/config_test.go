package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:         "8081",
		SQLiteDBPath: filepath.Join(t.TempDir(), "moodlog.db"),
		SessionTTL:   time.Hour,
		BcryptCost:   0,
		LogLevel:     "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "session TTL too short",
			mutate:      func(c *Config) { c.SessionTTL = time.Second },
			wantErr:     true,
			errorString: "must be at least 1 minute",
		},
		{
			name:        "bcrypt cost out of range",
			mutate:      func(c *Config) { c.BcryptCost = 99 },
			wantErr:     true,
			errorString: "invalid bcrypt cost 99",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.errorString)
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cases := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tc := range cases {
		cfg := Config{LogLevel: tc.level}
		got, err := cfg.SlogLevel()
		if err != nil {
			t.Fatalf("level %q: %v", tc.level, err)
		}
		if got != tc.want {
			t.Fatalf("level %q: got %v", tc.level, got)
		}
	}

	if _, err := (&Config{LogLevel: "loud"}).SlogLevel(); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("default port %q", cfg.Port)
	}
	if cfg.SQLiteDBPath == "" {
		t.Fatalf("default db path empty")
	}
	if cfg.SessionTTL != 30*24*time.Hour {
		t.Fatalf("default session TTL %v", cfg.SessionTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Fatalf("port %q", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("session TTL %v", cfg.SessionTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("bcrypt cost %d", cfg.BcryptCost)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level %q", cfg.LogLevel)
	}
}

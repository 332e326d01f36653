// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// validConfig returns defaults with the required secrets filled in.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	cfg.Security.AdminPassword = "change-me"
	return cfg
}

func TestValidateDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("defaults with secrets should validate, got: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "short" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "SERVER_PORT",
		},
		{
			name:    "invalid cors origin",
			mutate:  func(c *Config) { c.Security.CORSOrigins = []string{"not a url"} },
			wantErr: "invalid origin",
		},
		{
			name:    "zero auth timeout",
			mutate:  func(c *Config) { c.Realtime.AuthTimeout = 0 },
			wantErr: "AUTH_TIMEOUT",
		},
		{
			name: "pong wait below write wait",
			mutate: func(c *Config) {
				c.Realtime.PongWait = time.Second
				c.Realtime.WriteWait = 2 * time.Second
			},
			wantErr: "PONG_WAIT",
		},
		{
			name: "nats enabled without url",
			mutate: func(c *Config) {
				c.NATS.Enabled = true
				c.NATS.URL = ""
			},
			wantErr: "NATS_URL",
		},
		{
			name: "nats subject prefix with wildcard",
			mutate: func(c *Config) {
				c.NATS.Enabled = true
				c.NATS.SubjectPrefix = "hrms.>"
			},
			wantErr: "SUBJECT_PREFIX",
		},
		{
			name:    "otp code too short",
			mutate:  func(c *Config) { c.OTP.CodeLength = 2 },
			wantErr: "CODE_LENGTH",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOGGING_LEVEL",
		},
		{
			name: "database path required",
			mutate: func(c *Config) {
				c.Database.InMemory = false
				c.Database.Path = ""
			},
			wantErr: "DATABASE_PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HRMS_SECURITY_JWT_SECRET", "security.jwt_secret"},
		{"HRMS_REALTIME_AUTH_TIMEOUT", "realtime.auth_timeout"},
		{"HRMS_SERVER_PORT", "server.port"},
		{"HRMS_NATS_SUBJECT_PREFIX", "nats.subject_prefix"},
		{"HRMS_OTP_CODE_LENGTH", "otp.code_length"},
		{"HRMS_LOGGING_LEVEL", "logging.level"},
		{"HRMS_DATABASE_IN_MEMORY", "database.in_memory"},
		// Unknown section and bare section are ignored.
		{"HRMS_UNKNOWN_THING", ""},
		{"HRMS_SERVER", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.key); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HRMS_SECURITY_JWT_SECRET", testSecret)
	t.Setenv("HRMS_SECURITY_ADMIN_PASSWORD", "change-me")
	t.Setenv("HRMS_SERVER_PORT", "9090")
	t.Setenv("HRMS_REALTIME_AUTH_TIMEOUT", "3s")
	t.Setenv("HRMS_SECURITY_CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Realtime.AuthTimeout != 3*time.Second {
		t.Errorf("Realtime.AuthTimeout = %s, want 3s", cfg.Realtime.AuthTimeout)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "http://b.example" {
		t.Errorf("CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}
	// Untouched fields keep their defaults.
	if cfg.Realtime.InitialNotifications != 10 {
		t.Errorf("InitialNotifications = %d, want default 10", cfg.Realtime.InitialNotifications)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
security:
  jwt_secret: "` + testSecret + `"
  admin_password: "change-me"
server:
  port: 8181
realtime:
  send_buffer: 128
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("Server.Port = %d, want 8181", cfg.Server.Port)
	}
	if cfg.Realtime.SendBuffer != 128 {
		t.Errorf("Realtime.SendBuffer = %d, want 128", cfg.Realtime.SendBuffer)
	}
}

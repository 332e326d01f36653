// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

// Package config loads and validates the application configuration from
// struct defaults, an optional YAML file, and environment variables, in
// that order of precedence.
package config

import "time"

// Config is the root configuration for the HRMS backend.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Database DatabaseConfig `koanf:"database"`
	Realtime RealtimeConfig `koanf:"realtime"`
	NATS     NATSConfig     `koanf:"nats"`
	OTP      OTPConfig      `koanf:"otp"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds authentication, CORS and rate limiting settings.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
	AdminUsername  string        `koanf:"admin_username"`
	AdminPassword  string        `koanf:"admin_password"`
	CORSOrigins    []string      `koanf:"cors_origins"`
	RateLimit      int           `koanf:"rate_limit"`
	RateLimitBurst int           `koanf:"rate_limit_burst"`
}

// DatabaseConfig holds the Badger store settings.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// RealtimeConfig holds WebSocket connection tuning.
//
// AuthTimeout bounds the token and membership checks performed during the
// handshake; a check that does not complete within the timeout rejects the
// connection the same way a failed check does.
type RealtimeConfig struct {
	SendBuffer           int           `koanf:"send_buffer"`
	WriteWait            time.Duration `koanf:"write_wait"`
	PongWait             time.Duration `koanf:"pong_wait"`
	MaxMessageSize       int64         `koanf:"max_message_size"`
	AuthTimeout          time.Duration `koanf:"auth_timeout"`
	ParseErrorThreshold  int           `koanf:"parse_error_threshold"`
	InitialNotifications int           `koanf:"initial_notifications"`
}

// NATSConfig holds the optional cross-instance fan-out bridge settings.
// When disabled the hub broadcasts to local connections only.
type NATSConfig struct {
	Enabled       bool   `koanf:"enabled"`
	URL           string `koanf:"url"`
	SubjectPrefix string `koanf:"subject_prefix"`
}

// OTPConfig holds the password reset one-time-code settings.
type OTPConfig struct {
	TTL           time.Duration `koanf:"ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	CodeLength    int           `koanf:"code_length"`
}

// LoggingConfig holds the log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret:      "",
			SessionTimeout: 24 * time.Hour,
			AdminUsername:  "admin",
			AdminPassword:  "",
			CORSOrigins:    []string{"http://localhost:3000"},
			RateLimit:      100,
			RateLimitBurst: 20,
		},
		Database: DatabaseConfig{
			Path:     "/data/hrms",
			InMemory: false,
		},
		Realtime: RealtimeConfig{
			SendBuffer:           64,
			WriteWait:            10 * time.Second,
			PongWait:             60 * time.Second,
			MaxMessageSize:       64 * 1024,
			AuthTimeout:          5 * time.Second,
			ParseErrorThreshold:  8,
			InitialNotifications: 10,
		},
		NATS: NATSConfig{
			Enabled:       false,
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: "hrms.realtime",
		},
		OTP: OTPConfig{
			TTL:           5 * time.Minute,
			SweepInterval: time.Minute,
			CodeLength:    6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// minJWTSecretLength is the minimum acceptable HMAC key length. Shorter
// secrets make brute-forcing signed tokens practical.
const minJWTSecretLength = 32

// Validate checks the configuration for values that would make the server
// unsafe or unable to start. It returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateRealtime(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	if err := c.validateOTP(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HRMS_SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HRMS_SERVER_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("HRMS_SECURITY_JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("HRMS_SECURITY_JWT_SECRET must be at least %d characters, got %d",
			minJWTSecretLength, len(c.Security.JWTSecret))
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("HRMS_SECURITY_SESSION_TIMEOUT must be positive, got %s", c.Security.SessionTimeout)
	}
	if c.Security.AdminUsername == "" {
		return fmt.Errorf("HRMS_SECURITY_ADMIN_USERNAME is required")
	}
	if c.Security.RateLimit < 0 {
		return fmt.Errorf("HRMS_SECURITY_RATE_LIMIT must not be negative, got %d", c.Security.RateLimit)
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("HRMS_SECURITY_CORS_ORIGINS contains invalid origin %q", origin)
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("HRMS_DATABASE_PATH is required when HRMS_DATABASE_IN_MEMORY=false")
	}
	return nil
}

func (c *Config) validateRealtime() error {
	if c.Realtime.SendBuffer < 1 {
		return fmt.Errorf("HRMS_REALTIME_SEND_BUFFER must be at least 1, got %d", c.Realtime.SendBuffer)
	}
	if c.Realtime.AuthTimeout <= 0 {
		return fmt.Errorf("HRMS_REALTIME_AUTH_TIMEOUT must be positive, got %s", c.Realtime.AuthTimeout)
	}
	if c.Realtime.PongWait <= c.Realtime.WriteWait {
		return fmt.Errorf("HRMS_REALTIME_PONG_WAIT (%s) must exceed HRMS_REALTIME_WRITE_WAIT (%s)",
			c.Realtime.PongWait, c.Realtime.WriteWait)
	}
	if c.Realtime.ParseErrorThreshold < 1 {
		return fmt.Errorf("HRMS_REALTIME_PARSE_ERROR_THRESHOLD must be at least 1, got %d",
			c.Realtime.ParseErrorThreshold)
	}
	if c.Realtime.InitialNotifications < 0 {
		return fmt.Errorf("HRMS_REALTIME_INITIAL_NOTIFICATIONS must not be negative, got %d",
			c.Realtime.InitialNotifications)
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("HRMS_NATS_URL is required when HRMS_NATS_ENABLED=true")
	}
	if c.NATS.SubjectPrefix == "" {
		return fmt.Errorf("HRMS_NATS_SUBJECT_PREFIX is required when HRMS_NATS_ENABLED=true")
	}
	if strings.ContainsAny(c.NATS.SubjectPrefix, " \t*>") {
		return fmt.Errorf("HRMS_NATS_SUBJECT_PREFIX contains invalid characters: %q", c.NATS.SubjectPrefix)
	}
	return nil
}

func (c *Config) validateOTP() error {
	if c.OTP.TTL <= 0 {
		return fmt.Errorf("HRMS_OTP_TTL must be positive, got %s", c.OTP.TTL)
	}
	if c.OTP.SweepInterval <= 0 {
		return fmt.Errorf("HRMS_OTP_SWEEP_INTERVAL must be positive, got %s", c.OTP.SweepInterval)
	}
	if c.OTP.CodeLength < 4 || c.OTP.CodeLength > 10 {
		return fmt.Errorf("HRMS_OTP_CODE_LENGTH must be between 4 and 10, got %d", c.OTP.CodeLength)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("HRMS_LOGGING_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("HRMS_LOGGING_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package services

import (
	"context"
	"time"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
)

// ExpiredCleaner matches store.OTPStore's sweep method.
type ExpiredCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// OTPSweeperService periodically removes expired password reset codes.
// Expired codes are already unusable; the sweep only reclaims space, so a
// failed pass is logged and retried on the next tick.
type OTPSweeperService struct {
	cleaner  ExpiredCleaner
	interval time.Duration
}

// NewOTPSweeperService creates the sweeper.
func NewOTPSweeperService(cleaner ExpiredCleaner, interval time.Duration) *OTPSweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &OTPSweeperService{cleaner: cleaner, interval: interval}
}

// Serve implements suture.Service.
func (s *OTPSweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := s.cleaner.CleanupExpired(ctx)
			if err != nil {
				logging.Error().Err(err).Msg("otp sweep failed")
				continue
			}
			if removed > 0 {
				logging.Debug().Int("removed", removed).Msg("expired otp codes swept")
			}
		}
	}
}

// String implements fmt.Stringer for suture's event log.
func (s *OTPSweeperService) String() string {
	return "otp-sweeper"
}

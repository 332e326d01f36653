// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package store

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/config"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/metrics"
)

var (
	// ErrOTPInvalid covers a wrong or expired code and an unknown email;
	// callers get one error so responses cannot be used to probe which
	// emails have pending resets.
	ErrOTPInvalid = errors.New("invalid or expired code")

	// ErrOTPNotVerified is returned when a reset is attempted before the
	// code was verified.
	ErrOTPNotVerified = errors.New("code not verified")
)

// otpRecord is the stored state of one password-reset code. At most one
// record exists per email; issuing a new code replaces any pending one.
type otpRecord struct {
	Code      string    `json:"code"`
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OTPStore persists password-reset codes. Records expire after the
// configured TTL; a background sweep removes stale entries so abandoned
// resets do not accumulate.
type OTPStore struct {
	store *Store
	cfg   config.OTPConfig
}

// NewOTPStore returns the OTP store backed by s.
func NewOTPStore(s *Store, cfg config.OTPConfig) *OTPStore {
	return &OTPStore{store: s, cfg: cfg}
}

func otpKey(email string) []byte {
	return []byte(otpKeyPrefix + strings.ToLower(email))
}

// Issue generates and stores a fresh numeric code for the email, replacing
// any pending one, and returns it for delivery to the user.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	defer metrics.ObserveStoreOp("otp", "issue", time.Now())
	if err := ctx.Err(); err != nil {
		return "", err
	}

	code, err := generateCode(s.cfg.CodeLength)
	if err != nil {
		return "", err
	}

	rec := &otpRecord{
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(s.cfg.TTL),
	}
	err = s.store.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, otpKey(email), rec)
	})
	if err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Verify checks the submitted code and marks the record verified so the
// subsequent reset call can consume it. Comparison is constant-time.
func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	defer metrics.ObserveStoreOp("otp", "verify", time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.store.db.Update(func(txn *badger.Txn) error {
		var rec otpRecord
		if err := getJSON(txn, otpKey(email), &rec); err != nil {
			return err
		}
		if time.Now().After(rec.ExpiresAt) {
			return ErrOTPInvalid
		}
		if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
			return ErrOTPInvalid
		}
		rec.Verified = true
		return setJSON(txn, otpKey(email), &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrOTPInvalid
	}
	return err
}

// Consume removes the record for a verified code. It is called once the
// password has been reset; an unverified or missing record fails the reset.
func (s *OTPStore) Consume(ctx context.Context, email string) error {
	defer metrics.ObserveStoreOp("otp", "consume", time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.store.db.Update(func(txn *badger.Txn) error {
		var rec otpRecord
		if err := getJSON(txn, otpKey(email), &rec); err != nil {
			return err
		}
		if time.Now().After(rec.ExpiresAt) {
			return ErrOTPInvalid
		}
		if !rec.Verified {
			return ErrOTPNotVerified
		}
		return txn.Delete(otpKey(email))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrOTPInvalid
	}
	return err
}

// CleanupExpired removes all expired records and returns how many were
// deleted.
func (s *OTPStore) CleanupExpired(ctx context.Context) (int, error) {
	defer metrics.ObserveStoreOp("otp", "cleanup_expired", time.Now())
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := time.Now()
	var expired [][]byte
	err := s.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(otpKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var rec otpRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			if now.After(rec.ExpiresAt) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	err = s.store.db.Update(func(txn *badger.Txn) error {
		for _, key := range expired {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(expired), nil
}

// generateCode draws a numeric code of the given length from crypto/rand.
func generateCode(length int) (string, error) {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

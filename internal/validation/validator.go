// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

// Package validation wraps go-playground/validator v10 behind a thread-safe
// singleton with the custom validators the HTTP request types use.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// RequestError collects the per-field failures of one request.
type RequestError struct {
	fields   []string
	messages []string
}

// Fields returns the struct field names that failed.
func (e *RequestError) Fields() []string {
	return e.fields
}

func (e *RequestError) Error() string {
	if len(e.messages) == 0 {
		return "validation failed"
	}
	return strings.Join(e.messages, "; ")
}

// GetValidator returns the singleton instance. Struct reflection info is
// cached by the library, so sharing one instance is both safe and cheap.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// room_name applies the same character set the websocket
		// handshake enforces, so a room that passes creation can
		// always be joined.
		_ = validate.RegisterValidation("room_name", func(fl validator.FieldLevel) bool {
			return models.ValidRoomName(fl.Field().String())
		})
	})
	return validate
}

// ValidateStruct validates s against its `validate` tags. Returns nil when
// valid, or a *RequestError describing every failed field.
func ValidateStruct(s interface{}) *RequestError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return &RequestError{messages: []string{invalid.Error()}}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{messages: []string{err.Error()}}
	}

	re := &RequestError{}
	for _, fe := range verrs {
		re.fields = append(re.fields, fe.Field())
		re.messages = append(re.messages, fieldMessage(fe))
	}
	return re
}

// fieldMessage renders one failure in a form safe to return to clients: the
// offending value itself is never echoed back.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "room_name":
		return fmt.Sprintf("%s must contain only letters, digits, '_', '.' or '-'", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

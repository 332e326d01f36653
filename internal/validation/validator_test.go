// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name  string `validate:"required,room_name,max=90"`
	Email string `validate:"omitempty,email"`
	Limit int    `validate:"min=0,max=100"`
}

func TestValidateStructPasses(t *testing.T) {
	req := sampleRequest{Name: "engineering-general", Email: "hr@example.com", Limit: 10}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(&sampleRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "Name is required") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidateStructRoomName(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Name: "bad room name"})
	if err == nil {
		t.Fatal("expected validation error for space in room name")
	}
	if len(err.Fields()) != 1 || err.Fields()[0] != "Name" {
		t.Errorf("expected Name failure, got %v", err.Fields())
	}
}

func TestValidateStructCollectsAllFields(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Name: "ok", Email: "not-an-email", Limit: 500})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Fields()) != 2 {
		t.Errorf("expected 2 failed fields, got %v", err.Fields())
	}
}

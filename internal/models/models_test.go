// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package models

import (
	"strings"
	"testing"
)

func TestPrivateRoomName(t *testing.T) {
	tests := []struct {
		a, b int64
		want string
	}{
		{1, 2, "p_1_2"},
		{2, 1, "p_1_2"},
		{42, 7, "p_7_42"},
		{7, 42, "p_7_42"},
		{5, 5, "p_5_5"},
	}

	for _, tt := range tests {
		if got := PrivateRoomName(tt.a, tt.b); got != tt.want {
			t.Errorf("PrivateRoomName(%d, %d) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPrivateRoomNameOrderIndependent(t *testing.T) {
	// Both participants must derive the identical key regardless of call order.
	for a := int64(1); a < 10; a++ {
		for b := int64(1); b < 10; b++ {
			if PrivateRoomName(a, b) != PrivateRoomName(b, a) {
				t.Fatalf("PrivateRoomName not symmetric for (%d, %d)", a, b)
			}
		}
	}
}

func TestValidRoomName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"general", true},
		{"p_1_2", true},
		{"dev-team.backend", true},
		{"", false},
		{"has space", false},
		{"emoji💬", false},
		{"slash/name", false},
		{strings.Repeat("a", MaxRoomNameLength), true},
		{strings.Repeat("a", MaxRoomNameLength+1), false},
	}

	for _, tt := range tests {
		if got := ValidRoomName(tt.name); got != tt.want {
			t.Errorf("ValidRoomName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestHasParticipant(t *testing.T) {
	room := &ChatRoom{Participants: []int64{1, 2, 3}}
	if !room.HasParticipant(2) {
		t.Error("expected participant 2")
	}
	if room.HasParticipant(4) {
		t.Error("unexpected participant 4")
	}
}

func TestNormalizeNotificationType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"task", "task"},
		{"leave", "leave"},
		{"chat_group_added", "chat_group_added"},
		{"", "general"},
		{"bogus", "general"},
	}

	for _, tt := range tests {
		if got := NormalizeNotificationType(tt.in); got != tt.want {
			t.Errorf("NormalizeNotificationType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUserDisplayName(t *testing.T) {
	var nilUser *User
	if got := nilUser.DisplayName(); got != "System" {
		t.Errorf("nil user display name = %q, want System", got)
	}
	u := &User{Username: "jdoe"}
	if got := u.DisplayName(); got != "jdoe" {
		t.Errorf("display name = %q, want jdoe", got)
	}
	u.FullName = "Jane Doe"
	if got := u.DisplayName(); got != "Jane Doe" {
		t.Errorf("display name = %q, want Jane Doe", got)
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("Failed to generate ID: %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("Expected %d hex chars, got %d", tt.wantLen, len(id))
			}
		})
	}

	a, _ := GenerateID(16)
	b, _ := GenerateID(16)
	if a == b {
		t.Error("Expected distinct IDs")
	}
}

func TestValidateAdminToken(t *testing.T) {
	if err := ValidateAdminToken("secret", "secret"); err != nil {
		t.Errorf("Expected matching token to validate, got %v", err)
	}
	if err := ValidateAdminToken("wrong", "secret"); !errors.Is(err, ErrInvalidAdminToken) {
		t.Errorf("Expected ErrInvalidAdminToken, got %v", err)
	}
	// An empty configured token must never validate anything.
	if err := ValidateAdminToken("", ""); !errors.Is(err, ErrInvalidAdminToken) {
		t.Errorf("Expected empty configured token to reject, got %v", err)
	}
}

func TestNewPublicRefIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ref := NewPublicRef()
		if seen[ref] {
			t.Fatal("Expected unique public refs")
		}
		seen[ref] = true
	}
}

func TestConfirmTokenRoundTrip(t *testing.T) {
	now := time.Now()
	token, expiresAt := GenerateConfirmToken("contest_delete", "summer-2025", "salt", now)

	if !expiresAt.After(now) {
		t.Error("Expected expiry in the future")
	}
	if err := ValidateConfirmToken(token, "contest_delete", "summer-2025", "salt", now); err != nil {
		t.Errorf("Expected token to validate, got %v", err)
	}
}

func TestConfirmTokenExpiry(t *testing.T) {
	now := time.Now()
	token, _ := GenerateConfirmToken("contest_delete", "summer-2025", "salt", now)

	later := now.Add(ConfirmTTL + time.Second)
	if err := ValidateConfirmToken(token, "contest_delete", "summer-2025", "salt", later); !errors.Is(err, ErrConfirmExpired) {
		t.Errorf("Expected ErrConfirmExpired, got %v", err)
	}
}

func TestConfirmTokenBindsActionAndTarget(t *testing.T) {
	now := time.Now()
	token, _ := GenerateConfirmToken("contest_delete", "summer-2025", "salt", now)

	if err := ValidateConfirmToken(token, "contest_delete", "other-contest", "salt", now); !errors.Is(err, ErrInvalidConfirm) {
		t.Errorf("Expected rejection for different target, got %v", err)
	}
	if err := ValidateConfirmToken(token, "other_action", "summer-2025", "salt", now); !errors.Is(err, ErrInvalidConfirm) {
		t.Errorf("Expected rejection for different action, got %v", err)
	}
	if err := ValidateConfirmToken(token, "contest_delete", "summer-2025", "other-salt", now); !errors.Is(err, ErrInvalidConfirm) {
		t.Errorf("Expected rejection for different salt, got %v", err)
	}
}

func TestConfirmTokenForgery(t *testing.T) {
	now := time.Now()
	for _, token := range []string{"", "garbage", "mac.notanumber", "forged.9999999999"} {
		if err := ValidateConfirmToken(token, "contest_delete", "summer-2025", "salt", now); err == nil {
			t.Errorf("Expected forged token %q to be rejected", token)
		}
	}
}

func TestAdminContext(t *testing.T) {
	ctx := context.Background()
	if IsAdmin(ctx) {
		t.Error("Expected plain context to not be admin")
	}
	if !IsAdmin(ContextWithAdmin(ctx)) {
		t.Error("Expected marked context to be admin")
	}
}

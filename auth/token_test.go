package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "devlink_test_secret_1234567890"

func TestIssueValidateRoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, 10*time.Hour)

	token, err := svc.Issue("64a1f0c2e4b0a1b2c3d4e5f6")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if userID != "64a1f0c2e4b0a1b2c3d4e5f6" {
		t.Fatalf("wrong user id: %q", userID)
	}
}

func TestValidateExpired(t *testing.T) {
	svc := NewTokenService(testSecret, -time.Minute)

	token, err := svc.Issue("someone")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewTokenService("other-secret-other-secret", time.Hour).Issue("someone")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	svc := NewTokenService(testSecret, time.Hour)
	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Validate(raw); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Validate(%q): expected ErrTokenInvalid, got %v", raw, err)
		}
	}
}

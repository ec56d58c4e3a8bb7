package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/appointment-service/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, exp, err := tm.GenerateToken("user-1", "a@x.com", domain.RolePatient)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expiry not in the future")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject: got %q", claims.Subject)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("email: got %q", claims.Email)
	}
	if claims.Role != domain.RolePatient {
		t.Errorf("role: got %q", claims.Role)
	}
	if claims.ExpiresAt == nil {
		t.Error("token issued without expiry")
	}
}

func TestParseTokenTampered(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	token, _, err := tm.GenerateToken("user-1", "a@x.com", domain.RolePatient)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]
	if _, err := tm.ParseToken(tampered); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-one", 60)
	token, _, err := tm.GenerateToken("user-1", "a@x.com", domain.RoleDoctor)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewTokenManager("secret-two", 60)
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}
	token, _, err := tm.GenerateToken("user-1", "a@x.com", domain.RolePatient)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseTokenInvalidRoleClaim(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	token, _, err := tm.GenerateToken("user-1", "a@x.com", domain.Role("admin"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("expected error for unknown role claim")
	}
}

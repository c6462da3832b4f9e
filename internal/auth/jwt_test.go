package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	token, exp, err := Issue("1MS21CS001", "student", "classroom-api", "test-key", time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry should be in the future")
	}

	claims, err := Parse(token, "test-key", "classroom-api")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != "1MS21CS001" {
		t.Fatalf("expected subject 1MS21CS001, got %s", claims.Subject)
	}
	if claims.Role != "student" {
		t.Fatalf("expected role student, got %s", claims.Role)
	}
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, _, err := Issue("EMP001", "professor", "classroom-api", "key-a", time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := Parse(token, "key-b", "classroom-api"); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	token, _, err := Issue("EMP001", "professor", "other-issuer", "key", time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := Parse(token, "key", "classroom-api"); err == nil {
		t.Fatalf("expected issuer mismatch")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPassword(hash, "secret"); err != nil {
		t.Fatalf("expected password to match")
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected password mismatch")
	}
}

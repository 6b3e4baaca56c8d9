package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	issuer := NewJWTIssuer("secret")

	signed, expiresAt, err := issuer.Issue("prof@ufc.br", "professor", PurposeAccess, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) <= 29*time.Minute {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := issuer.Validate(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "prof@ufc.br" || claims.Role != "professor" || claims.Purpose != PurposeAccess {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	issuer := &jwtIssuer{secret: []byte("secret"), now: func() time.Time { return time.Now().Add(-time.Hour) }}
	signed, _, err := issuer.Issue("a@b.c", "", PurposeReset, 10*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	fresh := NewJWTIssuer("secret")
	if _, err := fresh.Validate(signed); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for expired token, got %v", err)
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	signed, _, err := NewJWTIssuer("one").Issue("a@b.c", "leitor", PurposeAccess, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewJWTIssuer("two").Validate(signed); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := NewJWTIssuer("one").Validate("not-a-token"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for garbage, got %v", err)
	}
}

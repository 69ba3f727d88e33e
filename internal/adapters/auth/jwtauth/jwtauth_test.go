package jwtauth

import (
	"context"
	"testing"
	"time"

	"pet-boarding-backend/internal/ports/auth"
)

func TestTokenSource_IssueVerify_Roundtrip(t *testing.T) {
	ts := New("secreto-de-test", time.Hour)

	token, expires, err := ts.Issue(auth.Claims{
		UserID:   "user-1",
		Username: "mrojas",
		RoleID:   "role-1",
	})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("expected a future expiry, got %v", expires)
	}

	claims, err := ts.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "mrojas" || claims.RoleID != "role-1" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestTokenSource_Verify_Expired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	ts := New("secreto-de-test", time.Hour)
	ts.now = func() time.Time { return issued }

	token, _, err := ts.Issue(auth.Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// dos horas después el token de una hora ya no sirve
	ts.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := ts.Verify(context.Background(), token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenSource_Verify_WrongSecret(t *testing.T) {
	issuer := New("secreto-a", time.Hour)
	verifier := New("secreto-b", time.Hour)

	token, _, err := issuer.Issue(auth.Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := verifier.Verify(context.Background(), token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestTokenSource_Verify_Empty(t *testing.T) {
	ts := New("secreto-de-test", time.Hour)
	if _, err := ts.Verify(context.Background(), "  "); err != ErrTokenEmpty {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
}

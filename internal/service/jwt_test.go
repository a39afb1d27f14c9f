package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	token, err := issuer.Issue(42, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected subject 42, got %d", id)
	}
}

func TestIssueDefaultTTL(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue(1, 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "1" {
		t.Fatalf("expected sub \"1\", got %q", claims.Subject)
	}
	if got := claims.ExpiresAt.Time; !got.Equal(now.Add(DefaultTokenTTL)) {
		t.Fatalf("expected exp %s, got %s", now.Add(DefaultTokenTTL), got)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	issuedAt := time.Now().Add(-time.Hour)
	issuer.now = func() time.Time { return issuedAt }
	token, err := issuer.Issue(1, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	good, err := issuer.Issue(5, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other, err := NewTokenIssuer("other-secret").Issue(5, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "5"}).SignedString([]byte("secret"))
	badSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "5",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": other,
		"tampered":     good[:strings.LastIndex(good, ".")] + ".AAAA",
		"no exp":       noExp,
		"non-numeric":  badSub,
		"other alg":    hs512,
	}
	for name, tok := range cases {
		if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

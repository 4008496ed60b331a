package utils

import (
	"errors"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", 15*time.Minute, 14*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Minute, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.GenerateAccessToken("prof@univ.ma", []string{"professeur", "directeur_labo"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.ParseOfType(token, TokenTypeAccess)
	if err != nil {
		t.Fatalf("ParseOfType: %v", err)
	}
	if claims.Username != "prof@univ.ma" {
		t.Errorf("username = %q, want prof@univ.ma", claims.Username)
	}
	if claims.Subject != "prof@univ.ma" {
		t.Errorf("subject = %q, want prof@univ.ma", claims.Subject)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "professeur" {
		t.Errorf("roles = %v, want [professeur directeur_labo]", claims.Roles)
	}
}

func TestTokenTypeDiscriminator(t *testing.T) {
	svc := newTestTokenService(t)

	access, _ := svc.GenerateAccessToken("u@e.ma", nil)
	refresh, _ := svc.GenerateRefreshToken("u@e.ma")
	verification, _ := svc.GenerateEmailVerificationToken("u@e.ma")
	reset, _ := svc.GeneratePasswordResetToken("u@e.ma")

	cases := []struct {
		name     string
		token    string
		wrongFor string
	}{
		{"refresh is not access", refresh, TokenTypeAccess},
		{"access is not refresh", access, TokenTypeRefresh},
		{"verification is not reset", verification, TokenTypePasswordReset},
		{"reset is not verification", reset, TokenTypeEmailVerification},
		{"verification is not access", verification, TokenTypeAccess},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.ParseOfType(tc.token, tc.wrongFor); !errors.Is(err, ErrWrongTokenType) {
				t.Errorf("got %v, want ErrWrongTokenType", err)
			}
		})
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc, err := NewTokenService("test-secret", -time.Minute, -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := svc.GenerateAccessToken("u@e.ma", nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := svc.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestWrongKeyRejected(t *testing.T) {
	svc := newTestTokenService(t)
	other, _ := NewTokenService("a-different-secret", 15*time.Minute, time.Hour)

	token, _ := svc.GenerateRefreshToken("u@e.ma")
	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	svc := newTestTokenService(t)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestShortSecretDerivationIsDeterministic(t *testing.T) {
	a, err := NewTokenService("abc", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	b, _ := NewTokenService("abc", 15*time.Minute, time.Hour)
	c, _ := NewTokenService("abd", 15*time.Minute, time.Hour)

	token, err := a.GenerateAccessToken("u@e.ma", nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := b.Parse(token); err != nil {
		t.Errorf("same short secret must verify, got %v", err)
	}
	if _, err := c.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("different secret must fail, got %v", err)
	}
}

func TestFixedVerificationAndResetLifetimes(t *testing.T) {
	// TTLs passed at construction only apply to the session tokens.
	svc, err := NewTokenService("test-secret", time.Second, time.Second)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	verification, _ := svc.GenerateEmailVerificationToken("u@e.ma")
	claims, err := svc.ParseOfType(verification, TokenTypeEmailVerification)
	if err != nil {
		t.Fatalf("ParseOfType: %v", err)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != 24*time.Hour {
		t.Errorf("verification ttl = %v, want 24h", ttl)
	}

	reset, _ := svc.GeneratePasswordResetToken("u@e.ma")
	claims, err = svc.ParseOfType(reset, TokenTypePasswordReset)
	if err != nil {
		t.Fatalf("ParseOfType: %v", err)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != time.Hour {
		t.Errorf("reset ttl = %v, want 1h", ttl)
	}
}

func TestSubjectOf(t *testing.T) {
	svc := newTestTokenService(t)

	token, _ := svc.GeneratePasswordResetToken("candidat@gmail.com")
	subject, err := svc.SubjectOf(token)
	if err != nil {
		t.Fatalf("SubjectOf: %v", err)
	}
	if subject != "candidat@gmail.com" {
		t.Errorf("subject = %q, want candidat@gmail.com", subject)
	}

	if _, err := svc.SubjectOf("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("got %v, want ErrInvalidToken", err)
	}
}

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokens(clock *fakeClock) *TokenService {
	return NewTokenService("forum-api", "secret", 7*24*time.Hour, WithClock(clock.Now))
}

func TestTokenService_IssueVerify_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokens(clock)
	principal := uuid.New()

	tok, err := svc.Issue(principal)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if tok.MaxAge != 7*24*time.Hour {
		t.Fatalf("unexpected max age: %v", tok.MaxAge)
	}

	got, err := svc.Verify(tok.Value)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got != principal {
		t.Fatalf("expected %s, got %s", principal, got)
	}
}

func TestTokenService_ExpiryScenario(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokens(clock)
	principal := uuid.New()

	tok, err := svc.Issue(principal)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	clock.Advance(6 * 24 * time.Hour)
	got, err := svc.Verify(tok.Value)
	if err != nil {
		t.Fatalf("verify at T+6d: %v", err)
	}
	if got != principal {
		t.Fatalf("verify at T+6d returned %s", got)
	}

	clock.Advance(2 * 24 * time.Hour)
	if _, err := svc.Verify(tok.Value); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("verify at T+8d: expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenService_ExpiredAtExactBoundary(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokens(clock)

	tok, _ := svc.Issue(uuid.New())
	clock.t = tok.ExpiresAt

	if _, err := svc.Verify(tok.Value); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken at exp, got %v", err)
	}
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokens(clock)
	principal := uuid.New()

	otherSecret := NewTokenService("forum-api", "other", time.Hour, WithClock(clock.Now))
	otherIssuer := NewTokenService("someone-else", "secret", time.Hour, WithClock(clock.Now))

	wrongSecret, _ := otherSecret.Issue(principal)
	wrongIssuer, _ := otherIssuer.Issue(principal)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "forum-api",
		Subject:   principal.String(),
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "forum-api",
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:  "forum-api",
		Subject: principal.String(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"wrong secret": wrongSecret.Value,
		"wrong issuer": wrongIssuer.Value,
		"alg none":     unsigned,
		"bad subject":  badSubject,
		"no expiry":    noExpiry,
	}
	for name, tok := range cases {
		if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestTokenService_Refresh(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokens(clock)
	principal := uuid.New()

	refresh, err := svc.IssueRefresh(principal)
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}
	if refresh.MaxAge != RefreshTTL {
		t.Fatalf("unexpected refresh lifetime: %v", refresh.MaxAge)
	}

	clock.Advance(20 * 24 * time.Hour)
	got, err := svc.VerifyRefresh(refresh.Value)
	if err != nil || got != principal {
		t.Fatalf("VerifyRefresh: got %s, %v", got, err)
	}

	access, _ := svc.Issue(principal)
	if _, err := svc.VerifyRefresh(access.Value); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}

	clock.Advance(11 * 24 * time.Hour)
	if _, err := svc.VerifyRefresh(refresh.Value); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected refresh token to expire after 30 days, got %v", err)
	}
}

func TestTokenService_VerifyRejectsRefreshToken(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestTokens(clock)

	refresh, err := svc.IssueRefresh(uuid.New())
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}
	if _, err := svc.Verify(refresh.Value); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService("forum-api", "secret", 0)
	if svc.AccessTTL() != DefaultAccessTTL {
		t.Fatalf("expected default ttl, got %v", svc.AccessTTL())
	}
	if _, err := svc.Issue(uuid.Nil); err == nil {
		t.Fatalf("expected error for empty principal")
	}
}

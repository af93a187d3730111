package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
)

const (
	// DefaultAccessTTL applies when the configured lifetime is not positive.
	DefaultAccessTTL = 7 * 24 * time.Hour
	// RefreshTTL is fixed; refresh tokens are not configurable.
	RefreshTTL = 30 * 24 * time.Hour
)

// sessionClaims is the JWT payload. Type is empty for access tokens.
type sessionClaims struct {
	Type domain.TokenType `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens. It keeps no state
// besides its configuration; expiry is the only way a token stops working.
type TokenService struct {
	issuer    string
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(issuer, secret string, accessTTL time.Duration, opts ...TokenOption) *TokenService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	s := &TokenService{
		issuer:    issuer,
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AccessTTL is the lifetime of tokens returned by Issue.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// Issue mints an access token for principal.
func (s *TokenService) Issue(principal uuid.UUID) (domain.IssuedToken, error) {
	return s.sign(principal, domain.TokenAccess, s.accessTTL)
}

// IssueRefresh mints a refresh token, valid for RefreshTTL.
func (s *TokenService) IssueRefresh(principal uuid.UUID) (domain.IssuedToken, error) {
	return s.sign(principal, domain.TokenRefresh, RefreshTTL)
}

func (s *TokenService) sign(principal uuid.UUID, typ domain.TokenType, ttl time.Duration) (domain.IssuedToken, error) {
	if principal == uuid.Nil {
		return domain.IssuedToken{}, errors.New("token: empty principal")
	}
	now := s.now().UTC()
	exp := now.Add(ttl)
	claims := sessionClaims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   principal.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("token: sign: %w", err)
	}
	return domain.IssuedToken{Value: signed, ExpiresAt: exp, MaxAge: ttl}, nil
}

// Verify checks signature, issuer and expiry and returns the subject.
// Only access tokens are accepted; refresh tokens are rejected with
// ErrInvalidToken.
func (s *TokenService) Verify(token string) (uuid.UUID, error) {
	claims, err := s.parse(token)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Type != domain.TokenAccess {
		return uuid.Nil, fmt.Errorf("%w: not an access token", domain.ErrInvalidToken)
	}
	return s.subject(claims)
}

// VerifyRefresh is Verify restricted to refresh tokens.
func (s *TokenService) VerifyRefresh(token string) (uuid.UUID, error) {
	claims, err := s.parse(token)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Type != domain.TokenRefresh {
		return uuid.Nil, fmt.Errorf("%w: not a refresh token", domain.ErrInvalidToken)
	}
	return s.subject(claims)
}

func (s *TokenService) parse(token string) (*sessionClaims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty", domain.ErrInvalidToken)
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	return claims, nil
}

func (s *TokenService) subject(claims *sessionClaims) (uuid.UUID, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", domain.ErrInvalidToken)
	}
	return id, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// AuthService implements registration, login and session refresh. Sessions
// are stateless: logout only tells the client to drop its cookies.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	audit  ports.AuditSink
	log    zerolog.Logger
	cost   int
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService wires the account flows. audit may be nil.
func NewAuthService(users ports.UserRepository, tokens ports.TokenService, audit ports.AuditSink, log zerolog.Logger) *AuthService {
	if audit == nil {
		audit = nopSink{}
	}
	return &AuthService{users: users, tokens: tokens, audit: audit, log: log, cost: bcrypt.DefaultCost}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

// Login checks the credentials and mints an access and a refresh token.
// An unknown email and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password, address string) (*ports.Session, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(domain.AuditLoginFailed, uuid.Nil, address, "unknown_email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.record(domain.AuditLoginFailed, user.ID, address, "bad_password")
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditLogin, user.ID, address, "")
	return &ports.Session{User: user, Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// account must still exist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, address string) (*ports.Session, error) {
	principal, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		reason := domain.ReasonTokenInvalid
		if errors.Is(err, domain.ErrExpiredToken) {
			reason = domain.ReasonTokenExpired
		}
		s.record(domain.AuditTokenRejected, uuid.Nil, address, "refresh_"+reason)
		return nil, err
	}

	user, err := s.users.FindByID(ctx, principal)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	access, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditRefresh, user.ID, address, "")
	return &ports.Session{User: user, Access: access}, nil
}

// Logout records the event. There is no server-side session to destroy.
func (s *AuthService) Logout(_ context.Context, principal uuid.UUID, address string) {
	s.record(domain.AuditLogout, principal, address, "")
}

func (s *AuthService) Me(ctx context.Context, principal uuid.UUID) (*domain.User, error) {
	return s.users.FindByID(ctx, principal)
}

func (s *AuthService) record(action domain.AuditAction, actor uuid.UUID, address, reason string) {
	s.audit.Enqueue(domain.AuditEvent{
		ID:         uuid.New(),
		Action:     action,
		ActorID:    actor,
		Address:    address,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})
}

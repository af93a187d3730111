package ports

import (
	"github.com/google/uuid"

	"github.com/forumhub/forum-api/internal/core/domain"
)

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	Issue(principal uuid.UUID) (domain.IssuedToken, error)
	IssueRefresh(principal uuid.UUID) (domain.IssuedToken, error)
	// Verify accepts access tokens only. It returns the subject, or
	// domain.ErrExpiredToken / domain.ErrInvalidToken.
	Verify(token string) (uuid.UUID, error)
	VerifyRefresh(token string) (uuid.UUID, error)
}

package ports

import (
	"context"
	"time"

	"github.com/workhub/collab-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. Role is
// optional and defaults to sales.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthService implements registration, login and account administration.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUserRole(ctx context.Context, id, role string) (*domain.User, error)
}

// TokenVerifier resolves a bearer token to the identity it encodes. It
// fails with domain.ErrTokenExpired for an expired token and
// domain.ErrInvalidToken for anything else wrong with it.
type TokenVerifier interface {
	VerifyToken(token string) (domain.Identity, error)
}

// LoginLimiter throttles repeated failed logins per email.
type LoginLimiter interface {
	TooMany(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// TokenTTL is the session token lifetime.
const TokenTTL = 24 * time.Hour

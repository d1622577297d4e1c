package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/workhub/collab-api/internal/core/domain"
	"github.com/workhub/collab-api/internal/core/ports"
)

// AuthService implements registration, login and account administration.
type AuthService struct {
	repo    ports.UserRepository
	creds   *Credentials
	limiter ports.LoginLimiter // optional, nil disables throttling
	log     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, creds *Credentials, limiter ports.LoginLimiter, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, creds: creds, limiter: limiter, log: log}
}

// Register creates an account and returns it together with a freshly
// issued session token. An omitted role defaults to sales.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	role := input.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if !domain.ValidRole(role) {
		return nil, "", domain.ErrInvalidRole
	}

	hash, err := s.creds.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repo.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, "", err
	}

	token, _, err := s.creds.IssueToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, token, nil
}

// Login verifies the password and issues a session token. The stored user
// is never returned on failure, and an unknown email is indistinguishable
// from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		blocked, err := s.limiter.TooMany(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter check failed, allowing attempt")
		} else if blocked {
			return "", nil, domain.ErrTooManyLogins
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.creds.VerifyPassword(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login counter")
		}
	}

	token, _, err := s.creds.IssueToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// ListUsers returns all accounts. Admin-only, enforced by the role gate.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// UpdateUserRole sets the role of another account. Admin-only, enforced by
// the role gate.
func (s *AuthService) UpdateUserRole(ctx context.Context, id, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", role).Msg("user role updated")
	return user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

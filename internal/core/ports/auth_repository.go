package ports

import (
	"context"

	"github.com/workhub/collab-api/internal/core/domain"
)

// UserRepository defines persistence for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// UpdateRole sets the role of the given user and returns the updated
	// record, or domain.ErrUserNotFound when the id does not resolve.
	UpdateRole(ctx context.Context, id, role string) (*domain.User, error)
}

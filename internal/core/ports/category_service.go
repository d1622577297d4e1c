package ports

import (
	"context"

	"github.com/workhub/collab-api/internal/core/domain"
)

// CreateCategoryInput carries the fields accepted when creating a category.
type CreateCategoryInput struct {
	Name        string
	Description string
}

// CategoryService defines operations on the shared category resource.
// Reads are public; creation is admin-only, enforced by the role gate in
// front of the handler.
type CategoryService interface {
	Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

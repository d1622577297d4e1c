package ports

import (
	"context"

	"github.com/workhub/collab-api/internal/core/domain"
)

// CategoryRepository defines persistence for the shared category resource.
type CategoryRepository interface {
	// Create inserts a category, failing with domain.ErrCategoryExists
	// when the name is taken.
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)
	// CountByIDs returns how many of the given ids resolve to existing
	// categories. Used to validate post category references atomically
	// before any write.
	CountByIDs(ctx context.Context, ids []string) (int64, error)
}

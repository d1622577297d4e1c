package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/workhub/collab-api/internal/core/domain"
	"github.com/workhub/collab-api/internal/core/ports"
)

// CategoryService manages the shared category resource. Categories are not
// owned; creation is restricted to admins by the role gate.
type CategoryService struct {
	repo ports.CategoryRepository
	log  zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

// Create inserts a category. Name uniqueness is enforced by the repository
// (unique index), surfacing domain.ErrCategoryExists on a duplicate.
func (s *CategoryService) Create(ctx context.Context, input ports.CreateCategoryInput) (*domain.Category, error) {
	category, err := s.repo.Create(ctx, &domain.Category{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("category_id", category.ID).Str("name", category.Name).Msg("category created")
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

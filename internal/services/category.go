package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/recordbook/apiserver/types"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (types.Category, error)
	List(ctx context.Context) ([]types.Category, error)
	Create(ctx context.Context, category types.Category) (types.Category, error)
	Update(ctx context.Context, category types.Category) (types.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryService encapsulates category use-cases.
type CategoryService struct {
	repo    CategoryRepository
	records RecordRepository
}

func NewCategoryService(repo CategoryRepository, records RecordRepository) *CategoryService {
	return &CategoryService{repo: repo, records: records}
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (types.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]types.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, category types.Category) (types.Category, error) {
	return s.repo.Create(ctx, category)
}

func (s *CategoryService) Update(ctx context.Context, category types.Category) (types.Category, error) {
	return s.repo.Update(ctx, category)
}

// Delete detaches the category from every referencing record before
// removing the category, so records are never left pointing at a
// missing category. The two steps are not wrapped in a transaction.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.records.DetachCategory(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

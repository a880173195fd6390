package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/recordbook/apiserver/internal/store"
	"github.com/recordbook/apiserver/types"
)

// ErrCategoryNotFound is returned when a record references a category
// that does not exist. It is distinct from the repository's not-found
// so callers can tell a bad reference from a missing record.
var ErrCategoryNotFound = errors.New("category not found")

// RecordRepository defines persistence operations for records.
type RecordRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (types.Record, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Record, error)
	Create(ctx context.Context, record types.Record) (types.Record, error)
	Update(ctx context.Context, record types.Record) (types.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
	DetachCategory(ctx context.Context, categoryID uuid.UUID) error
}

// RecordService encapsulates record use-cases.
type RecordService struct {
	repo       RecordRepository
	categories CategoryRepository
}

func NewRecordService(repo RecordRepository, categories CategoryRepository) *RecordService {
	return &RecordService{repo: repo, categories: categories}
}

func (s *RecordService) Get(ctx context.Context, id uuid.UUID) (types.Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RecordService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Record, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Create persists a record after verifying the category reference, when
// one is given, points at an existing category.
func (s *RecordService) Create(ctx context.Context, record types.Record) (types.Record, error) {
	if err := s.checkCategory(ctx, record.CategoryID); err != nil {
		return types.Record{}, err
	}
	return s.repo.Create(ctx, record)
}

func (s *RecordService) Update(ctx context.Context, record types.Record) (types.Record, error) {
	if err := s.checkCategory(ctx, record.CategoryID); err != nil {
		return types.Record{}, err
	}
	return s.repo.Update(ctx, record)
}

func (s *RecordService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *RecordService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

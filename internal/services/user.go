package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/recordbook/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (types.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (types.User, error)
	FindDuplicate(ctx context.Context, username, email string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserService encapsulates user use-cases, including the deletion
// cascade over the user's records.
type UserService struct {
	repo    UserRepository
	records RecordRepository
}

func NewUserService(repo UserRepository, records RecordRepository) *UserService {
	return &UserService{repo: repo, records: records}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByIdentifier(ctx context.Context, identifier string) (types.User, error) {
	return s.repo.GetByIdentifier(ctx, identifier)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) GetByGoogleID(ctx context.Context, googleID string) (types.User, error) {
	return s.repo.GetByGoogleID(ctx, googleID)
}

func (s *UserService) FindDuplicate(ctx context.Context, username, email string) (types.User, error) {
	return s.repo.FindDuplicate(ctx, username, email)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

func (s *UserService) Update(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Update(ctx, user)
}

// Delete removes the user's records first, then the user itself. The
// two steps are not transactional; a failure between them leaves the
// account intact with its records already gone.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.records.DeleteByOwner(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

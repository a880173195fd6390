package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/recordbook/apiserver/types"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (types.Comment, error)
	List(ctx context.Context) ([]types.Comment, error)
	ListByRecord(ctx context.Context, recordID uuid.UUID) ([]types.Comment, error)
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
	Update(ctx context.Context, comment types.Comment) (types.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentService encapsulates comment use-cases.
type CommentService struct {
	repo    CommentRepository
	records RecordRepository
}

func NewCommentService(repo CommentRepository, records RecordRepository) *CommentService {
	return &CommentService{repo: repo, records: records}
}

func (s *CommentService) Get(ctx context.Context, id uuid.UUID) (types.Comment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CommentService) List(ctx context.Context) ([]types.Comment, error) {
	return s.repo.List(ctx)
}

func (s *CommentService) ListByRecord(ctx context.Context, recordID uuid.UUID) ([]types.Comment, error) {
	return s.repo.ListByRecord(ctx, recordID)
}

// Create persists a comment after verifying the referenced record
// exists.
func (s *CommentService) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	if _, err := s.records.GetByID(ctx, comment.RecordID); err != nil {
		return types.Comment{}, err
	}
	return s.repo.Create(ctx, comment)
}

func (s *CommentService) Update(ctx context.Context, comment types.Comment) (types.Comment, error) {
	return s.repo.Update(ctx, comment)
}

func (s *CommentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recordbook/apiserver/types"
)

// CommentRepository handles persistence for comments.
type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Comment reads join the author's username so listings can show who
// wrote each comment without a second round trip.
const commentSelect = `
	SELECT c.id, c.record_id, c.author_id, COALESCE(u.username, ''), c.text, c.created_at, c.updated_at
	FROM comments c
	LEFT JOIN users u ON u.id = c.author_id`

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (types.Comment, error) {
	query := commentSelect + `
	WHERE c.id = $1`
	var comment types.Comment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.RecordID,
		&comment.AuthorID,
		&comment.AuthorUsername,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Comment{}, ErrNotFound
		}
		return types.Comment{}, err
	}
	return comment, nil
}

func (r *CommentRepository) List(ctx context.Context) ([]types.Comment, error) {
	query := commentSelect + `
	ORDER BY c.created_at`
	return r.queryComments(ctx, query)
}

func (r *CommentRepository) ListByRecord(ctx context.Context, recordID uuid.UUID) ([]types.Comment, error) {
	query := commentSelect + `
	WHERE c.record_id = $1
	ORDER BY c.created_at`
	return r.queryComments(ctx, query, recordID)
}

func (r *CommentRepository) queryComments(ctx context.Context, query string, args ...any) ([]types.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []types.Comment{}
	for rows.Next() {
		var comment types.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.RecordID,
			&comment.AuthorID,
			&comment.AuthorUsername,
			&comment.Text,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	now := time.Now()
	comment.ID = uuid.New()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	const query = `
		INSERT INTO comments (id, record_id, author_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		comment.ID,
		comment.RecordID,
		comment.AuthorID,
		comment.Text,
		comment.CreatedAt,
		comment.UpdatedAt,
	); err != nil {
		return types.Comment{}, mapWriteError(err)
	}
	return comment, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment types.Comment) (types.Comment, error) {
	comment.UpdatedAt = time.Now()

	const query = `
		UPDATE comments
		SET text = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, comment.Text, comment.UpdatedAt, comment.ID)
	if err != nil {
		return types.Comment{}, mapWriteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Comment{}, err
	}
	if affected == 0 {
		return types.Comment{}, ErrNotFound
	}
	return comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM comments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

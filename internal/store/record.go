package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recordbook/apiserver/types"
)

// RecordRepository handles persistence for records.
type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordColumns = `id, owner_id, category_id, first_name, last_name, email, created_at, updated_at`

// category_id is nullable, so scans go through uuid.NullUUID.
func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func (r *RecordRepository) GetByID(ctx context.Context, id uuid.UUID) (types.Record, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM records
		WHERE id = $1`
	var record types.Record
	var categoryID uuid.NullUUID
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.OwnerID,
		&categoryID,
		&record.FirstName,
		&record.LastName,
		&record.Email,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Record{}, ErrNotFound
		}
		return types.Record{}, err
	}
	if categoryID.Valid {
		record.CategoryID = &categoryID.UUID
	}
	return record, nil
}

// ListByOwner returns the private record listing for one user.
func (r *RecordRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Record, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM records
		WHERE owner_id = $1
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		var record types.Record
		var categoryID uuid.NullUUID
		if err := rows.Scan(
			&record.ID,
			&record.OwnerID,
			&categoryID,
			&record.FirstName,
			&record.LastName,
			&record.Email,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if categoryID.Valid {
			record.CategoryID = &categoryID.UUID
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *RecordRepository) Create(ctx context.Context, record types.Record) (types.Record, error) {
	now := time.Now()
	record.ID = uuid.New()
	record.CreatedAt = now
	record.UpdatedAt = now

	const query = `
		INSERT INTO records (id, owner_id, category_id, first_name, last_name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.OwnerID,
		nullableUUID(record.CategoryID),
		record.FirstName,
		record.LastName,
		record.Email,
		record.CreatedAt,
		record.UpdatedAt,
	); err != nil {
		return types.Record{}, mapWriteError(err)
	}
	return record, nil
}

func (r *RecordRepository) Update(ctx context.Context, record types.Record) (types.Record, error) {
	record.UpdatedAt = time.Now()

	const query = `
		UPDATE records
		SET category_id = $1,
			first_name = $2,
			last_name = $3,
			email = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		nullableUUID(record.CategoryID),
		record.FirstName,
		record.LastName,
		record.Email,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return types.Record{}, mapWriteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Record{}, err
	}
	if affected == 0 {
		return types.Record{}, ErrNotFound
	}
	return record, nil
}

func (r *RecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM records WHERE id = $1`
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

// DeleteByOwner removes every record owned by the given user. Used by
// the user-deletion cascade.
func (r *RecordRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	const query = `DELETE FROM records WHERE owner_id = $1`
	_, err := r.db.ExecContext(ctx, query, ownerID)
	return err
}

// DetachCategory clears the category reference on every record that
// points at the given category. Runs before category deletion so records
// are never left referencing a missing category.
func (r *RecordRepository) DetachCategory(ctx context.Context, categoryID uuid.UUID) error {
	const query = `UPDATE records SET category_id = NULL WHERE category_id = $1`
	_, err := r.db.ExecContext(ctx, query, categoryID)
	return err
}

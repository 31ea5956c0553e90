package history

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Repository provides database operations for health history records
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new history repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recordColumns = `
	id, user_id, family_member_id, current_conditions, condition_details,
	medications, allergies, surgeries, created_at, updated_at`

func scanRecord(row pgx.Row) (*Record, error) {
	rec := &Record{}
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.FamilyMemberID, &rec.CurrentConditions,
		&rec.ConditionDetails, &rec.Medications, &rec.Allergies, &rec.Surgeries,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetSelf retrieves the user's own record
func (r *Repository) GetSelf(ctx context.Context, userID types.ID) (*Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM health_history
		WHERE user_id = $1 AND family_member_id IS NULL`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("health history", userID.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get health history")
	}
	return rec, nil
}

// GetForMember retrieves the record kept for one family member
func (r *Repository) GetForMember(ctx context.Context, userID, memberID types.ID) (*Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM health_history
		WHERE user_id = $1 AND family_member_id = $2`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, userID, memberID))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("health history", memberID.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get health history")
	}
	return rec, nil
}

// List retrieves every record the user keeps, own record first
func (r *Repository) List(ctx context.Context, userID types.ID) ([]*Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM health_history
		WHERE user_id = $1
		ORDER BY family_member_id NULLS FIRST, created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list health history")
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan health history")
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Upsert inserts or fully replaces a record. The record keyed by
// (user, family member) is unique, so repeated saves update in place.
func (r *Repository) Upsert(ctx context.Context, rec *Record) error {
	var query string
	args := []any{
		rec.ID, rec.UserID, rec.FamilyMemberID, rec.CurrentConditions,
		rec.ConditionDetails, rec.Medications, rec.Allergies, rec.Surgeries,
	}

	if rec.FamilyMemberID == nil {
		query = `
			INSERT INTO health_history (
				id, user_id, family_member_id, current_conditions, condition_details,
				medications, allergies, surgeries
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (user_id) WHERE family_member_id IS NULL DO UPDATE SET
				current_conditions = EXCLUDED.current_conditions,
				condition_details = EXCLUDED.condition_details,
				medications = EXCLUDED.medications,
				allergies = EXCLUDED.allergies,
				surgeries = EXCLUDED.surgeries,
				updated_at = NOW()
			RETURNING id, created_at, updated_at`
	} else {
		query = `
			INSERT INTO health_history (
				id, user_id, family_member_id, current_conditions, condition_details,
				medications, allergies, surgeries
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (user_id, family_member_id) WHERE family_member_id IS NOT NULL DO UPDATE SET
				current_conditions = EXCLUDED.current_conditions,
				condition_details = EXCLUDED.condition_details,
				medications = EXCLUDED.medications,
				allergies = EXCLUDED.allergies,
				surgeries = EXCLUDED.surgeries,
				updated_at = NOW()
			RETURNING id, created_at, updated_at`
	}

	err := r.pool.QueryRow(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to save health history")
	}
	return nil
}

// Delete removes a record by ID, scoped to the owning user
func (r *Repository) Delete(ctx context.Context, userID, id types.ID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM health_history WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete health history")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("health history", id.String())
	}
	return nil
}

package results

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Repository provides database operations for test results
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new results repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const resultColumns = `
	id, user_id, family_member_id, type, content,
	file_path, file_hash, file_size, mime_type, created_at`

func scanResult(row pgx.Row) (*Result, error) {
	res := &Result{}
	err := row.Scan(
		&res.ID, &res.UserID, &res.FamilyMemberID, &res.Type, &res.Content,
		&res.FilePath, &res.FileHash, &res.FileSize, &res.MimeType, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Create inserts a new result
func (r *Repository) Create(ctx context.Context, res *Result) error {
	query := `
		INSERT INTO test_results (
			id, user_id, family_member_id, type, content,
			file_path, file_hash, file_size, mime_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		res.ID, res.UserID, res.FamilyMemberID, res.Type, res.Content,
		res.FilePath, res.FileHash, res.FileSize, res.MimeType,
	).Scan(&res.CreatedAt)

	if err != nil {
		return errors.Wrap(err, "failed to create result")
	}
	return nil
}

// List retrieves the user's results, newest first
func (r *Repository) List(ctx context.Context, userID types.ID, filter ListFilter) ([]*Result, error) {
	query := `SELECT ` + resultColumns + ` FROM test_results WHERE user_id = $1`
	args := []any{userID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += ` AND type = $2`
	}
	if filter.FamilyMemberID != nil {
		args = append(args, *filter.FamilyMemberID)
		if len(args) == 3 {
			query += ` AND family_member_id = $3`
		} else {
			query += ` AND family_member_id = $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list results")
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan result")
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

// Get retrieves one result, scoped to the owning user
func (r *Repository) Get(ctx context.Context, userID, id types.ID) (*Result, error) {
	query := `SELECT ` + resultColumns + `
		FROM test_results WHERE id = $1 AND user_id = $2`

	res, err := scanResult(r.pool.QueryRow(ctx, query, id, userID))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("result", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get result")
	}
	return res, nil
}

// Delete removes a result, scoped to the owning user
func (r *Repository) Delete(ctx context.Context, userID, id types.ID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM test_results WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete result")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("result", id.String())
	}
	return nil
}

// ExistsByHash reports whether the user already has a result with the given
// file hash. Used to skip duplicate clinic imports.
func (r *Repository) ExistsByHash(ctx context.Context, userID types.ID, hash string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM test_results WHERE user_id = $1 AND file_hash = $2)`,
		userID, hash,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check result hash")
	}
	return exists, nil
}

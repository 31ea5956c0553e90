package chat

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Repository provides database operations for chat logs
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new chat repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Log records one exchange
func (r *Repository) Log(ctx context.Context, entry *LogEntry) error {
	query := `
		INSERT INTO chat_logs (id, user_id, message, response)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.Message, entry.Response,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return errors.Wrap(err, "failed to log chat exchange")
	}
	return nil
}

// List retrieves the user's chat log, newest first, capped at limit
func (r *Repository) List(ctx context.Context, userID types.ID, limit int) ([]*LogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, user_id, message, response, created_at
		FROM chat_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chat logs")
	}
	defer rows.Close()

	var entries []*LogEntry
	for rows.Next() {
		entry := &LogEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Message, &entry.Response, &entry.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan chat log")
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

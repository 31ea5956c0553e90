package auth

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Repository provides database operations for accounts
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new auth repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new account
func (r *Repository) Create(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO users (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, a.ID, a.Email, a.PasswordHash, a.Name).Scan(&a.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("an account with this email already exists")
		}
		return errors.Wrap(err, "failed to create account")
	}
	return nil
}

// GetByEmail retrieves an account by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
		SELECT id, email, password_hash, name, onboarding_completed, created_at
		FROM users
		WHERE email = $1`

	a := &Account{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.OnboardingCompleted, &a.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("account", email)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}

	return a, nil
}

// Get retrieves an account by ID
func (r *Repository) Get(ctx context.Context, id types.ID) (*Account, error) {
	query := `
		SELECT id, email, password_hash, name, onboarding_completed, created_at
		FROM users
		WHERE id = $1`

	a := &Account{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.OnboardingCompleted, &a.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("account", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}

	return a, nil
}

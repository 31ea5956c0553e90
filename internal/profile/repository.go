package profile

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Repository provides database operations for user profiles
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new profile repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get retrieves a profile by user ID
func (r *Repository) Get(ctx context.Context, id types.ID) (*Profile, error) {
	query := `
		SELECT id, email, name, age, sex, height, weight, lifestyle,
			onboarding_completed, created_at, updated_at
		FROM users
		WHERE id = $1`

	p := &Profile{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.Name, &p.Age, &p.Sex, &p.Height, &p.Weight, &p.Lifestyle,
		&p.OnboardingCompleted, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("profile", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}

	return p, nil
}

// Update updates profile fields
func (r *Repository) Update(ctx context.Context, p *Profile) error {
	query := `
		UPDATE users SET
			name = $2, age = $3, sex = $4, height = $5, weight = $6,
			lifestyle = $7, onboarding_completed = $8, updated_at = NOW()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Age, p.Sex, p.Height, p.Weight, p.Lifestyle, p.OnboardingCompleted,
	)

	if err != nil {
		return errors.Wrap(err, "failed to update profile")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("profile", p.ID.String())
	}

	return nil
}

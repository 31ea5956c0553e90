package family

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Repository provides database operations for family members
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new family repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const memberColumns = `
	id, user_id, relation, name, age, age_at_death, is_alive,
	condition_list, condition_details, cause_of_death, created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	m := &Member{}
	err := row.Scan(
		&m.ID, &m.UserID, &m.Relation, &m.Name, &m.Age, &m.AgeAtDeath, &m.IsAlive,
		&m.ConditionList, &m.ConditionDetails, &m.CauseOfDeath, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List retrieves the user's family members, oldest record first
func (r *Repository) List(ctx context.Context, userID types.ID, filter ListFilter) ([]*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM family_members WHERE user_id = $1`
	args := []any{userID}

	if filter.Relation != "" {
		query += ` AND relation = $2`
		args = append(args, filter.Relation)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list family members")
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan family member")
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// Get retrieves one family member, scoped to the owning user
func (r *Repository) Get(ctx context.Context, userID, id types.ID) (*Member, error) {
	query := `SELECT ` + memberColumns + `
		FROM family_members WHERE id = $1 AND user_id = $2`

	m, err := scanMember(r.pool.QueryRow(ctx, query, id, userID))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("family member", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get family member")
	}
	return m, nil
}

// Create inserts a new family member
func (r *Repository) Create(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO family_members (
			id, user_id, relation, name, age, age_at_death, is_alive,
			condition_list, condition_details, cause_of_death
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		m.ID, m.UserID, m.Relation, m.Name, m.Age, m.AgeAtDeath, m.IsAlive,
		m.ConditionList, m.ConditionDetails, m.CauseOfDeath,
	).Scan(&m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		return errors.Wrap(err, "failed to create family member")
	}
	return nil
}

// Update updates a family member, scoped to the owning user
func (r *Repository) Update(ctx context.Context, m *Member) error {
	query := `
		UPDATE family_members SET
			relation = $3, name = $4, age = $5, age_at_death = $6, is_alive = $7,
			condition_list = $8, condition_details = $9, cause_of_death = $10,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query,
		m.ID, m.UserID, m.Relation, m.Name, m.Age, m.AgeAtDeath, m.IsAlive,
		m.ConditionList, m.ConditionDetails, m.CauseOfDeath,
	)

	if err != nil {
		return errors.Wrap(err, "failed to update family member")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("family member", m.ID.String())
	}
	return nil
}

// Delete removes a family member. History records kept for the member are
// removed by the cascade on family_member_id.
func (r *Repository) Delete(ctx context.Context, userID, id types.ID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM family_members WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete family member")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("family member", id.String())
	}
	return nil
}

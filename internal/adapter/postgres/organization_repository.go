package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OrganizationRepository implements port.OrganizationRepository. This
// subsystem only ever checks that a referenced organization exists.
type OrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository returns a new repository instance.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

// Exists reports whether an organization row with the given id exists.
func (r *OrganizationRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM organizations WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

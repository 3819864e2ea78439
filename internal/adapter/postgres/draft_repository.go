package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campforge/internal/core/domain"
	"campforge/internal/core/port"
)

// DraftRepository implements port.DraftRepository using pgxpool. The
// payload column is jsonb; expires_at is written once on insert and never
// touched again.
type DraftRepository struct {
	pool *pgxpool.Pool
}

// NewDraftRepository returns a new repository instance.
func NewDraftRepository(pool *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{pool: pool}
}

const draftColumns = `
    id, organization_id, creator_id, name, step, data, created_at, updated_at, expires_at`

// Insert stores a new draft including its fixed expiry.
func (r *DraftRepository) Insert(ctx context.Context, d *domain.CampaignDraft) error {
	data, err := json.Marshal(d.Data)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO campaign_drafts (`+draftColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		d.ID, d.OrganizationID, d.CreatorID, d.Name, d.Step, data,
		d.CreatedAt, d.UpdatedAt, d.ExpiresAt)
	return err
}

// Update replaces name, step, data and updated_at; expires_at stays.
func (r *DraftRepository) Update(ctx context.Context, d *domain.CampaignDraft) error {
	data, err := json.Marshal(d.Data)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `UPDATE campaign_drafts
        SET name = $2, step = $3, data = $4, updated_at = $5 WHERE id = $1`,
		d.ID, d.Name, d.Step, data, d.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: draft %s", port.ErrNotFound, d.ID)
	}
	return nil
}

// Get returns a draft by id regardless of expiry, or nil when absent.
func (r *DraftRepository) Get(ctx context.Context, id string) (*domain.CampaignDraft, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM campaign_drafts WHERE id = $1`, id)
	d, err := scanDraft(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a draft row. Deleting an absent id is a no-op.
func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM campaign_drafts WHERE id = $1`, id)
	return err
}

// ListByCreator returns the creator's drafts in one organization, most
// recently updated first.
func (r *DraftRepository) ListByCreator(ctx context.Context, creatorID, orgID string) ([]domain.CampaignDraft, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+draftColumns+` FROM campaign_drafts
        WHERE creator_id = $1 AND organization_id = $2 ORDER BY updated_at DESC`, creatorID, orgID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CampaignDraft, error) {
		d, err := scanDraft(row)
		if err != nil {
			return domain.CampaignDraft{}, err
		}
		return *d, nil
	})
}

// FindByName returns the creator's draft with the given name, or nil.
func (r *DraftRepository) FindByName(ctx context.Context, creatorID, orgID, name string) (*domain.CampaignDraft, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM campaign_drafts
        WHERE creator_id = $1 AND organization_id = $2 AND name = $3
        ORDER BY updated_at DESC LIMIT 1`, creatorID, orgID, name)
	d, err := scanDraft(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteExpired removes every draft whose expiry has passed and returns
// the ids. The per-id delete semantics make racing sweeps harmless.
func (r *DraftRepository) DeleteExpired(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`DELETE FROM campaign_drafts WHERE expires_at <= $1 RETURNING id`, now)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
}

func scanDraft(row pgx.Row) (*domain.CampaignDraft, error) {
	var (
		d    domain.CampaignDraft
		data []byte
	)
	err := row.Scan(&d.ID, &d.OrganizationID, &d.CreatorID, &d.Name, &d.Step,
		&data, &d.CreatedAt, &d.UpdatedAt, &d.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(data, &d.Data); err != nil {
		return nil, err
	}
	return &d, nil
}

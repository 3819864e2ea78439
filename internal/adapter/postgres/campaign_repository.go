// Package postgres implements the repository ports on pgxpool. Nested
// campaign structure (allocation, audiences, channels, KPIs, metrics,
// team, clients) is stored as jsonb; the import-source pair is guarded by
// a unique partial index so dedup holds even under racing imports.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"campforge/internal/core/domain"
	"campforge/internal/core/port"
)

// pgUniqueViolation is the SQLSTATE for a unique index violation.
const pgUniqueViolation = "23505"

// CampaignRepository implements port.CampaignRepository using pgxpool.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `
    id, organization_id, creator_id, name, description, status, category,
    priority, start_date, end_date, budget, currency, budget_allocation,
    audiences, channels, kpis, custom_metrics, team_members, clients,
    import_platform, import_external_id, imported_at, created_at, updated_at`

// Create stores a new campaign row. A duplicate import-source pair maps
// to port.ErrConflict.
func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	enc, err := encodeCampaign(c)
	if err != nil {
		return err
	}
	query := `INSERT INTO campaigns (` + campaignColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)`
	_, err = r.pool.Exec(ctx, query,
		c.ID, c.OrganizationID, c.CreatorID, c.Name, c.Description, c.Status, c.Category,
		c.Priority, c.StartDate, c.EndDate, c.Budget, c.Currency, enc.allocation,
		enc.audiences, enc.channels, enc.kpis, enc.customMetrics, enc.teamMembers, enc.clients,
		enc.importPlatform, enc.importExternalID, enc.importedAt, c.CreatedAt, c.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: import source already used", port.ErrConflict)
	}
	return err
}

// Get returns a campaign by id, or nil when absent.
func (r *CampaignRepository) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces all mutable columns of the stored row.
func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	enc, err := encodeCampaign(c)
	if err != nil {
		return err
	}
	query := `UPDATE campaigns SET
        name = $2, description = $3, status = $4, category = $5, priority = $6,
        start_date = $7, end_date = $8, budget = $9, currency = $10,
        budget_allocation = $11, audiences = $12, channels = $13, kpis = $14,
        custom_metrics = $15, team_members = $16, clients = $17, updated_at = $18
        WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Description, c.Status, c.Category, c.Priority,
		c.StartDate, c.EndDate, c.Budget, c.Currency,
		enc.allocation, enc.audiences, enc.channels, enc.kpis,
		enc.customMetrics, enc.teamMembers, enc.clients, c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: campaign %s", port.ErrNotFound, c.ID)
	}
	return nil
}

// Delete removes a campaign row. Deleting an absent id is a no-op.
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	return err
}

// ListByOrganization returns all campaigns of one organization ordered by
// creation time. Authorization filtering happens in the query layer.
func (r *CampaignRepository) ListByOrganization(ctx context.Context, orgID string) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE organization_id = $1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		c, err := scanCampaign(row)
		if err != nil {
			return domain.Campaign{}, err
		}
		return *c, nil
	})
}

// FindByImportSource returns the campaign imported from the given pair,
// or nil.
func (r *CampaignRepository) FindByImportSource(ctx context.Context, platform, externalID string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE import_platform = $1 AND import_external_id = $2`,
		platform, externalID)
	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

type encodedCampaign struct {
	allocation       []byte
	audiences        []byte
	channels         []byte
	kpis             []byte
	customMetrics    []byte
	teamMembers      []byte
	clients          []byte
	importPlatform   *string
	importExternalID *string
	importedAt       *time.Time
}

func encodeCampaign(c *domain.Campaign) (encodedCampaign, error) {
	var enc encodedCampaign
	var err error
	if enc.allocation, err = json.Marshal(orEmptyMap(c.BudgetAllocation)); err != nil {
		return enc, err
	}
	if enc.audiences, err = json.Marshal(orEmptySlice(c.Audiences)); err != nil {
		return enc, err
	}
	if enc.channels, err = json.Marshal(orEmptySlice(c.Channels)); err != nil {
		return enc, err
	}
	if enc.kpis, err = json.Marshal(orEmptySlice(c.KPIs)); err != nil {
		return enc, err
	}
	if enc.customMetrics, err = json.Marshal(orEmptySlice(c.CustomMetrics)); err != nil {
		return enc, err
	}
	if enc.teamMembers, err = json.Marshal(orEmptySlice(c.TeamMembers)); err != nil {
		return enc, err
	}
	if enc.clients, err = json.Marshal(orEmptySlice(c.Clients)); err != nil {
		return enc, err
	}
	if c.ImportSource != nil {
		enc.importPlatform = &c.ImportSource.Platform
		enc.importExternalID = &c.ImportSource.ExternalID
		t := c.ImportSource.ImportedAt
		enc.importedAt = &t
	}
	return enc, nil
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		c                                                                 domain.Campaign
		allocation, audiences, channels, kpis, customMetrics, team, clnts []byte
		importPlatform, importExternalID                                  *string
		importedAt                                                        *time.Time
	)
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.CreatorID, &c.Name, &c.Description, &c.Status, &c.Category,
		&c.Priority, &c.StartDate, &c.EndDate, &c.Budget, &c.Currency, &allocation,
		&audiences, &channels, &kpis, &customMetrics, &team, &clnts,
		&importPlatform, &importExternalID, &importedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(allocation, &c.BudgetAllocation); err != nil {
		return nil, err
	}
	if err = json.Unmarshal(audiences, &c.Audiences); err != nil {
		return nil, err
	}
	if err = json.Unmarshal(channels, &c.Channels); err != nil {
		return nil, err
	}
	if err = json.Unmarshal(kpis, &c.KPIs); err != nil {
		return nil, err
	}
	if err = json.Unmarshal(customMetrics, &c.CustomMetrics); err != nil {
		return nil, err
	}
	if err = json.Unmarshal(team, &c.TeamMembers); err != nil {
		return nil, err
	}
	if err = json.Unmarshal(clnts, &c.Clients); err != nil {
		return nil, err
	}
	if importPlatform != nil && importExternalID != nil && importedAt != nil {
		c.ImportSource = &domain.ImportSource{
			Platform:   *importPlatform,
			ExternalID: *importExternalID,
			ImportedAt: *importedAt,
		}
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func orEmptyMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func orEmptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

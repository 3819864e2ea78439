package port

import (
	"context"
	"time"

	"campforge/internal/core/domain"
)

// CampaignRepository defines the persistence layer for campaigns. It is an
// outbound port; implementations must make each call atomic with respect
// to other calls on the same record. Lookups return (nil, nil) for a
// missing record so the usecase decides how absence surfaces.
type CampaignRepository interface {
	// Create stores a new campaign. A duplicate import-source pair must
	// fail with ErrConflict.
	Create(ctx context.Context, c *domain.Campaign) error
	// Get returns a campaign by id, or nil when absent.
	Get(ctx context.Context, id string) (*domain.Campaign, error)
	// Update replaces the stored record for c.ID.
	Update(ctx context.Context, c *domain.Campaign) error
	// Delete removes a campaign. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
	// ListByOrganization returns all campaigns of one organization,
	// unfiltered; the query layer applies the view predicate.
	ListByOrganization(ctx context.Context, orgID string) ([]domain.Campaign, error)
	// FindByImportSource returns the campaign previously imported from the
	// given platform/external-id pair, or nil.
	FindByImportSource(ctx context.Context, platform, externalID string) (*domain.Campaign, error)
}

// DraftRepository defines the persistence layer for campaign drafts.
type DraftRepository interface {
	// Insert stores a new draft including its fixed ExpiresAt.
	Insert(ctx context.Context, d *domain.CampaignDraft) error
	// Update replaces name, step, data and UpdatedAt. ExpiresAt is never
	// touched by an update.
	Update(ctx context.Context, d *domain.CampaignDraft) error
	// Get returns a draft by id regardless of expiry, or nil when absent.
	Get(ctx context.Context, id string) (*domain.CampaignDraft, error)
	// Delete removes a draft. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
	// ListByCreator returns the creator's drafts within one organization.
	ListByCreator(ctx context.Context, creatorID, orgID string) ([]domain.CampaignDraft, error)
	// FindByName returns the creator's draft with the given name in the
	// organization, or nil.
	FindByName(ctx context.Context, creatorID, orgID, name string) (*domain.CampaignDraft, error)
	// DeleteExpired removes every draft past its expiry and returns the
	// removed ids. Racing sweeps are safe: deleting an already-deleted id
	// is a no-op.
	DeleteExpired(ctx context.Context, now time.Time) ([]string, error)
}

// OrganizationRepository checks the existence of the organizations that
// campaigns and drafts reference. Organizations are owned elsewhere.
type OrganizationRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

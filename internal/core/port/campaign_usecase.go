package port

import (
	"context"
	"time"

	"campforge/internal/core/domain"
)

// CampaignUseCase is the primary port into the campaign subsystem. Every
// operation takes the acting identity explicitly; there is no ambient
// current-user lookup, so tests can substitute arbitrary identities.
//
// All mutations follow one template: load the target (ErrNotFound when
// absent), evaluate the authorization predicate (ErrForbidden), validate
// the proposed resulting state (ValidationError with the full fix-list),
// then write.
type CampaignUseCase interface {
	// Create stores a new campaign in status draft, or active when the
	// input marks the wizard as complete. The creator is seeded into the
	// team as owner; currency defaults to USD and priority to medium. A
	// draft with the same name for the same creator and organization is
	// removed opportunistically.
	Create(ctx context.Context, actor domain.Actor, in CreateCampaignInput) (string, error)

	// Import behaves like Create with status forced to active and the
	// import source recorded. A second import of the same
	// (platform, external id) pair fails with ErrConflict.
	Import(ctx context.Context, actor domain.Actor, in ImportCampaignInput) (string, error)

	// Get returns a single campaign. A missing id yields ErrNotFound; an
	// existing id the actor may not view yields ErrForbidden. The
	// asymmetry is deliberate: list endpoints never leak unauthorized
	// rows, but a direct probe of a known id is answered honestly.
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Campaign, error)

	// ListByOrganization returns the organization's campaigns the actor
	// may view.
	ListByOrganization(ctx context.Context, actor domain.Actor, orgID string) ([]domain.Campaign, error)

	// EffectiveRole resolves the actor's strongest relationship to the
	// campaign: creator, a team role, or client.
	EffectiveRole(ctx context.Context, actor domain.Actor, id string) (string, error)

	// Update merges the patch over the current record, re-validates the
	// merged result and persists it with a refreshed UpdatedAt.
	Update(ctx context.Context, actor domain.Actor, id string, patch domain.CampaignData) error

	// Publish moves a draft campaign to active after the stricter
	// publication-readiness validation. Publishing a non-draft fails with
	// ErrInvalidState.
	Publish(ctx context.Context, actor domain.Actor, id string) error

	// Delete removes a campaign. An active campaign cannot be deleted.
	Delete(ctx context.Context, actor domain.Actor, id string) error

	// AddTeamMember assigns a role to a user. The creator cannot be
	// re-assigned; duplicate assignment and users already present as
	// clients fail with ErrConflict.
	AddTeamMember(ctx context.Context, actor domain.Actor, id string, userID string, role domain.Role) error

	// RemoveTeamMember drops a user from the team. A missing member is
	// ErrNotFound.
	RemoveTeamMember(ctx context.Context, actor domain.Actor, id string, userID string) error

	// ChangeTeamMemberRole reassigns an existing member's role. A missing
	// member is ErrNotFound.
	ChangeTeamMemberRole(ctx context.Context, actor domain.Actor, id string, userID string, role domain.Role) error

	// AddClient grants a user read-only client access. Users already on
	// the team, already clients, or the creator fail with ErrConflict.
	AddClient(ctx context.Context, actor domain.Actor, id string, userID string) error

	// RemoveClient revokes client access. A missing client is ErrNotFound.
	RemoveClient(ctx context.Context, actor domain.Actor, id string, userID string) error
}

// DraftUseCase covers the draft lifecycle: rate-limited saves feed it and
// a scheduled sweep drains it.
type DraftUseCase interface {
	// Save upserts a draft. Without a DraftID it inserts a new record with
	// ExpiresAt fixed to now+30d; with one it updates the caller's own
	// draft in place, leaving ExpiresAt untouched.
	Save(ctx context.Context, actor domain.Actor, in SaveDraftInput) (string, error)

	// Get returns the caller's own draft. Expired drafts read as absent
	// even before the sweeper removes them.
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.CampaignDraft, error)

	// ListMine returns the caller's unexpired drafts in one organization.
	ListMine(ctx context.Context, actor domain.Actor, orgID string) ([]domain.CampaignDraft, error)

	// Delete removes the caller's own draft. Deleting an absent id is a
	// no-op.
	Delete(ctx context.Context, actor domain.Actor, id string) error

	// CleanupExpired is the internal sweep: it deletes every draft past
	// its expiry, across all organizations, and reports what it removed.
	// It is idempotent and safe to run concurrently.
	CleanupExpired(ctx context.Context) (CleanupResult, error)

	// CleanupExpiredByUser is the user-triggered variant of the sweep. It
	// requires a resolved identity but is deliberately global in scope:
	// the table holds only user-owned ephemeral data, so any
	// authenticated user may run the maintenance task.
	CleanupExpiredByUser(ctx context.Context, actor domain.Actor) (CleanupResult, error)
}

// CreateCampaignInput carries the assembled fields for a new campaign.
// Data holds everything optional; the explicit fields are required.
type CreateCampaignInput struct {
	OrganizationID string
	Name           string
	StartDate      time.Time
	EndDate        time.Time
	Budget         float64
	Data           domain.CampaignData
	// Activate creates the campaign directly as active, used by the
	// wizard-complete flow. Publication readiness is enforced.
	Activate bool
}

// ImportCampaignInput is a Create carrying the provenance handed off by an
// external ad-platform adapter.
type ImportCampaignInput struct {
	CreateCampaignInput
	Platform   string
	ExternalID string
}

// SaveDraftInput is one auto-save or manual save of wizard state.
type SaveDraftInput struct {
	// DraftID selects an existing draft to update; empty inserts a new
	// one.
	DraftID        string
	OrganizationID string
	Name           string
	Step           int
	Data           domain.CampaignData
}

// CleanupResult reports one expired-draft sweep.
type CleanupResult struct {
	Count      int      `json:"count"`
	DeletedIDs []string `json:"deleted_ids"`
}

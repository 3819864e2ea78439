// Package usecase implements the campaign and draft business operations.
// Every mutation follows the same template: resolve the acting user, load
// the target, evaluate the authorization predicate, validate the proposed
// resulting state, then write. Authorization always runs before validation
// so an unauthorized caller never learns why their payload is invalid.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"campforge/internal/core/access"
	"campforge/internal/core/domain"
	"campforge/internal/core/port"
	"campforge/internal/core/validate"
	"campforge/internal/metrics"
)

// CampaignUseCase implements port.CampaignUseCase on top of the campaign,
// draft and organization repositories.
type CampaignUseCase struct {
	campaigns port.CampaignRepository
	drafts    port.DraftRepository
	orgs      port.OrganizationRepository

	now   func() time.Time
	newID func() string
}

// NewCampaignUseCase wires the repositories into a usecase with the real
// clock and uuid source.
func NewCampaignUseCase(campaigns port.CampaignRepository, drafts port.DraftRepository, orgs port.OrganizationRepository) *CampaignUseCase {
	return &CampaignUseCase{
		campaigns: campaigns,
		drafts:    drafts,
		orgs:      orgs,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Create stores a new campaign in status draft, or active for a completed
// wizard. See port.CampaignUseCase for the full contract.
func (u *CampaignUseCase) Create(ctx context.Context, actor domain.Actor, in port.CreateCampaignInput) (string, error) {
	if actor.UserID == "" {
		return "", fmt.Errorf("%w: identity required", port.ErrForbidden)
	}
	if err := u.checkOrganization(ctx, in.OrganizationID); err != nil {
		return "", err
	}

	c := u.assemble(actor, in)
	if in.Activate {
		c.Status = domain.StatusActive
	}

	res := validate.Campaign(c)
	if in.Activate {
		res = validate.PublicationReadiness(c)
	}
	if !res.Valid() {
		metrics.ValidationFailures.WithLabelValues("create").Inc()
		return "", port.NewValidationError(res)
	}

	if err := u.campaigns.Create(ctx, c); err != nil {
		return "", err
	}

	// A wizard that finishes leaves its staging draft behind; drop it by
	// the (creator, organization, name) key. Best effort only.
	if d, err := u.drafts.FindByName(ctx, actor.UserID, in.OrganizationID, c.Name); err == nil && d != nil {
		_ = u.drafts.Delete(ctx, d.ID)
	}

	source := "direct"
	if in.Activate {
		source = "wizard"
	}
	metrics.CampaignsCreated.WithLabelValues(source).Inc()
	return c.ID, nil
}

// Import creates an active campaign carrying its external provenance. The
// (platform, external id) pair is the dedup key.
func (u *CampaignUseCase) Import(ctx context.Context, actor domain.Actor, in port.ImportCampaignInput) (string, error) {
	if actor.UserID == "" {
		return "", fmt.Errorf("%w: identity required", port.ErrForbidden)
	}
	if err := u.checkOrganization(ctx, in.OrganizationID); err != nil {
		return "", err
	}

	existing, err := u.campaigns.FindByImportSource(ctx, in.Platform, in.ExternalID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", fmt.Errorf("%w: campaign %q was already imported from %s (%s)",
			port.ErrConflict, existing.Name, in.Platform, in.ExternalID)
	}

	c := u.assemble(actor, in.CreateCampaignInput)
	c.Status = domain.StatusActive
	c.ImportSource = &domain.ImportSource{
		Platform:   in.Platform,
		ExternalID: in.ExternalID,
		ImportedAt: u.now(),
	}

	if res := validate.Campaign(c); !res.Valid() {
		metrics.ValidationFailures.WithLabelValues("import").Inc()
		return "", port.NewValidationError(res)
	}

	// The repository enforces the dedup key too, so a racing import still
	// surfaces as a conflict rather than a duplicate row.
	if err := u.campaigns.Create(ctx, c); err != nil {
		return "", err
	}
	metrics.CampaignsCreated.WithLabelValues("import").Inc()
	return c.ID, nil
}

// Get returns one campaign, distinguishing absence from denial.
func (u *CampaignUseCase) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Campaign, error) {
	c, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanView(actor.UserID, c) {
		return nil, fmt.Errorf("%w: no access to campaign %s", port.ErrForbidden, id)
	}
	return c, nil
}

// ListByOrganization returns the organization's campaigns, post-filtered
// by the view predicate so unauthorized rows are never surfaced.
func (u *CampaignUseCase) ListByOrganization(ctx context.Context, actor domain.Actor, orgID string) ([]domain.Campaign, error) {
	all, err := u.campaigns.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Campaign, 0, len(all))
	for i := range all {
		if access.CanView(actor.UserID, &all[i]) {
			visible = append(visible, all[i])
		}
	}
	return visible, nil
}

// EffectiveRole resolves the actor's strongest relationship to the
// campaign. An actor with no relationship gets an empty role, not an
// error.
func (u *CampaignUseCase) EffectiveRole(ctx context.Context, actor domain.Actor, id string) (string, error) {
	c, err := u.load(ctx, id)
	if err != nil {
		return "", err
	}
	role, _ := access.EffectiveRole(actor.UserID, c)
	return role, nil
}

// Update merges the patch over the stored record and re-validates the
// merged result, not just the delta.
func (u *CampaignUseCase) Update(ctx context.Context, actor domain.Actor, id string, patch domain.CampaignData) error {
	c, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanEdit(actor.UserID, c) {
		return fmt.Errorf("%w: no edit access to campaign %s", port.ErrForbidden, id)
	}

	// draft -> active only ever happens through Publish.
	if patch.Status != nil && *patch.Status == domain.StatusActive && c.Status == domain.StatusDraft {
		return fmt.Errorf("%w: a draft campaign is activated by publishing, not updating", port.ErrInvalidState)
	}

	merged := *c
	patch.ApplyTo(&merged)

	// A wholesale team replacement may not drop the creator's seeded
	// owner entry.
	if patch.TeamMembers != nil && merged.Member(c.CreatorID) == nil {
		merged.TeamMembers = append([]domain.TeamMember{{
			UserID:     c.CreatorID,
			Role:       domain.RoleOwner,
			AssignedAt: c.CreatedAt,
		}}, merged.TeamMembers...)
	}

	if res := validate.Campaign(&merged); !res.Valid() {
		metrics.ValidationFailures.WithLabelValues("update").Inc()
		return port.NewValidationError(res)
	}

	merged.UpdatedAt = u.now()
	return u.campaigns.Update(ctx, &merged)
}

// Publish moves a draft to active after the stricter readiness check.
func (u *CampaignUseCase) Publish(ctx context.Context, actor domain.Actor, id string) error {
	c, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanEdit(actor.UserID, c) {
		return fmt.Errorf("%w: no edit access to campaign %s", port.ErrForbidden, id)
	}
	if c.Status != domain.StatusDraft {
		metrics.CampaignsPublished.WithLabelValues("failure").Inc()
		return fmt.Errorf("%w: only a draft campaign can be published, status is %q", port.ErrInvalidState, c.Status)
	}
	if res := validate.PublicationReadiness(c); !res.Valid() {
		metrics.CampaignsPublished.WithLabelValues("failure").Inc()
		metrics.ValidationFailures.WithLabelValues("publish").Inc()
		return port.NewValidationError(res)
	}

	c.Status = domain.StatusActive
	c.UpdatedAt = u.now()
	if err := u.campaigns.Update(ctx, c); err != nil {
		metrics.CampaignsPublished.WithLabelValues("failure").Inc()
		return err
	}
	metrics.CampaignsPublished.WithLabelValues("success").Inc()
	return nil
}

// Delete removes a campaign unless it is active.
func (u *CampaignUseCase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	c, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanDelete(actor.UserID, c) {
		return fmt.Errorf("%w: no delete access to campaign %s", port.ErrForbidden, id)
	}
	if c.Status == domain.StatusActive {
		return fmt.Errorf("%w: an active campaign cannot be deleted, pause or complete it first", port.ErrInvalidState)
	}
	return u.campaigns.Delete(ctx, id)
}

// AddTeamMember assigns a role to a user not yet related to the campaign.
func (u *CampaignUseCase) AddTeamMember(ctx context.Context, actor domain.Actor, id, userID string, role domain.Role) error {
	c, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanManageTeam(actor.UserID, c) {
		return fmt.Errorf("%w: no team access to campaign %s", port.ErrForbidden, id)
	}
	if !role.Known() {
		return port.NewValidationError(validate.TeamMembers([]domain.TeamMember{{UserID: userID, Role: role}}))
	}
	switch {
	case userID == c.CreatorID:
		return fmt.Errorf("%w: the creator already owns the campaign", port.ErrConflict)
	case c.Member(userID) != nil:
		return fmt.Errorf("%w: user %s is already a team member", port.ErrConflict, userID)
	case c.IsClient(userID):
		return fmt.Errorf("%w: user %s is a client and cannot join the team", port.ErrConflict, userID)
	}

	c.TeamMembers = append(c.TeamMembers, domain.TeamMember{
		UserID:     userID,
		Role:       role,
		AssignedAt: u.now(),
	})
	c.UpdatedAt = u.now()
	return u.campaigns.Update(ctx, c)
}

// RemoveTeamMember drops a member from the team. The creator's seeded
// entry stays.
func (u *CampaignUseCase) RemoveTeamMember(ctx context.Context, actor domain.Actor, id, userID string) error {
	c, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanManageTeam(actor.UserID, c) {
		return fmt.Errorf("%w: no team access to campaign %s", port.ErrForbidden, id)
	}
	if userID == c.CreatorID {
		return fmt.Errorf("%w: the creator cannot be removed from the team", port.ErrInvalidState)
	}
	if c.Member(userID) == nil {
		return fmt.Errorf("%w: user %s is not a team member", port.ErrNotFound, userID)
	}

	kept := c.TeamMembers[:0]
	for _, m := range c.TeamMembers {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	c.TeamMembers = kept
	c.UpdatedAt = u.now()
	return u.campaigns.Update(ctx, c)
}

// ChangeTeamMemberRole reassigns an existing member's role.
func (u *CampaignUseCase) ChangeTeamMemberRole(ctx context.Context, actor domain.Actor, id, userID string, role domain.Role) error {
	c, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanManageTeam(actor.UserID, c) {
		return fmt.Errorf("%w: no team access to campaign %s", port.ErrForbidden, id)
	}
	if !role.Known() {
		return port.NewValidationError(validate.TeamMembers([]domain.TeamMember{{UserID: userID, Role: role}}))
	}
	if userID == c.CreatorID {
		return fmt.Errorf("%w: the creator's owner role is fixed", port.ErrInvalidState)
	}
	m := c.Member(userID)
	if m == nil {
		return fmt.Errorf("%w: user %s is not a team member", port.ErrNotFound, userID)
	}

	m.Role = role
	c.UpdatedAt = u.now()
	return u.campaigns.Update(ctx, c)
}

// AddClient grants read-only client access to a user with no existing
// relationship to the campaign.
func (u *CampaignUseCase) AddClient(ctx context.Context, actor domain.Actor, id, userID string) error {
	c, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanManageClients(actor.UserID, c) {
		return fmt.Errorf("%w: no client access to campaign %s", port.ErrForbidden, id)
	}
	switch {
	case userID == c.CreatorID:
		return fmt.Errorf("%w: the creator cannot be a client of their own campaign", port.ErrConflict)
	case c.IsClient(userID):
		return fmt.Errorf("%w: user %s is already a client", port.ErrConflict, userID)
	case c.Member(userID) != nil:
		return fmt.Errorf("%w: user %s is a team member and cannot also be a client", port.ErrConflict, userID)
	}

	c.Clients = append(c.Clients, domain.Client{UserID: userID, AssignedAt: u.now()})
	c.UpdatedAt = u.now()
	return u.campaigns.Update(ctx, c)
}

// RemoveClient revokes client access.
func (u *CampaignUseCase) RemoveClient(ctx context.Context, actor domain.Actor, id, userID string) error {
	c, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanManageClients(actor.UserID, c) {
		return fmt.Errorf("%w: no client access to campaign %s", port.ErrForbidden, id)
	}
	if !c.IsClient(userID) {
		return fmt.Errorf("%w: user %s is not a client", port.ErrNotFound, userID)
	}

	kept := c.Clients[:0]
	for _, cl := range c.Clients {
		if cl.UserID != userID {
			kept = append(kept, cl)
		}
	}
	c.Clients = kept
	c.UpdatedAt = u.now()
	return u.campaigns.Update(ctx, c)
}

// assemble builds a fresh campaign record from the create input, applies
// the optional payload, fills defaults and seeds the creator as owner.
func (u *CampaignUseCase) assemble(actor domain.Actor, in port.CreateCampaignInput) *domain.Campaign {
	now := u.now()
	c := &domain.Campaign{
		ID:             u.newID(),
		OrganizationID: in.OrganizationID,
		CreatorID:      actor.UserID,
		Name:           in.Name,
		Status:         domain.StatusDraft,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Budget:         in.Budget,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	in.Data.ApplyTo(c)
	// Creation never takes a status from the payload; activation is an
	// explicit decision of the caller-facing operation.
	c.Status = domain.StatusDraft

	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.Priority == "" {
		c.Priority = domain.PriorityMedium
	}
	if c.Category == "" {
		c.Category = domain.CategoryMixed
	}

	// The creator leads the team; any accidental creator entry in the
	// payload is superseded by the seeded one.
	members := []domain.TeamMember{{UserID: actor.UserID, Role: domain.RoleOwner, AssignedAt: now}}
	for _, m := range c.TeamMembers {
		if m.UserID != actor.UserID {
			members = append(members, m)
		}
	}
	c.TeamMembers = members
	return c
}

func (u *CampaignUseCase) load(ctx context.Context, id string) (*domain.Campaign, error) {
	c, err := u.campaigns.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: campaign %s", port.ErrNotFound, id)
	}
	return c, nil
}

func (u *CampaignUseCase) checkOrganization(ctx context.Context, orgID string) error {
	ok, err := u.orgs.Exists(ctx, orgID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: organization %s", port.ErrNotFound, orgID)
	}
	return nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"campforge/internal/core/domain"
	"campforge/internal/core/port"
	"campforge/internal/core/validate"
	"campforge/internal/metrics"
)

// DraftUseCase implements port.DraftUseCase. Drafts are private to their
// creator and expire 30 days after the first save; updates never extend
// the expiry.
type DraftUseCase struct {
	drafts port.DraftRepository
	orgs   port.OrganizationRepository

	now   func() time.Time
	newID func() string
}

// NewDraftUseCase wires the repositories into a usecase with the real
// clock and uuid source.
func NewDraftUseCase(drafts port.DraftRepository, orgs port.OrganizationRepository) *DraftUseCase {
	return &DraftUseCase{
		drafts: drafts,
		orgs:   orgs,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Save upserts a draft. An insert fixes ExpiresAt once; an update keeps
// the original CreatedAt and ExpiresAt untouched.
func (u *DraftUseCase) Save(ctx context.Context, actor domain.Actor, in port.SaveDraftInput) (string, error) {
	if actor.UserID == "" {
		return "", fmt.Errorf("%w: identity required", port.ErrForbidden)
	}

	if in.DraftID != "" {
		existing, err := u.drafts.Get(ctx, in.DraftID)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return "", fmt.Errorf("%w: draft %s", port.ErrNotFound, in.DraftID)
		}
		if existing.CreatorID != actor.UserID {
			return "", fmt.Errorf("%w: draft %s belongs to another user", port.ErrForbidden, in.DraftID)
		}
		if err := u.validateSave(in, "draft_update"); err != nil {
			return "", err
		}

		existing.Name = in.Name
		existing.Step = in.Step
		existing.Data = in.Data
		existing.UpdatedAt = u.now()
		if err := u.drafts.Update(ctx, existing); err != nil {
			return "", err
		}
		metrics.DraftSaves.WithLabelValues("update").Inc()
		return existing.ID, nil
	}

	ok, err := u.orgs.Exists(ctx, in.OrganizationID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: organization %s", port.ErrNotFound, in.OrganizationID)
	}
	if err := u.validateSave(in, "draft_insert"); err != nil {
		return "", err
	}

	now := u.now()
	d := &domain.CampaignDraft{
		ID:             u.newID(),
		OrganizationID: in.OrganizationID,
		CreatorID:      actor.UserID,
		Name:           in.Name,
		Step:           in.Step,
		Data:           in.Data,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(domain.DraftTTL),
	}
	if err := u.drafts.Insert(ctx, d); err != nil {
		return "", err
	}
	metrics.DraftSaves.WithLabelValues("insert").Inc()
	return d.ID, nil
}

// Get returns the caller's own draft; expired drafts read as absent even
// before the sweeper removes them.
func (u *DraftUseCase) Get(ctx context.Context, actor domain.Actor, id string) (*domain.CampaignDraft, error) {
	if actor.UserID == "" {
		return nil, fmt.Errorf("%w: identity required", port.ErrForbidden)
	}
	d, err := u.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil || d.Expired(u.now()) {
		return nil, fmt.Errorf("%w: draft %s", port.ErrNotFound, id)
	}
	if d.CreatorID != actor.UserID {
		return nil, fmt.Errorf("%w: draft %s belongs to another user", port.ErrForbidden, id)
	}
	return d, nil
}

// ListMine returns the caller's unexpired drafts in one organization.
func (u *DraftUseCase) ListMine(ctx context.Context, actor domain.Actor, orgID string) ([]domain.CampaignDraft, error) {
	if actor.UserID == "" {
		return nil, fmt.Errorf("%w: identity required", port.ErrForbidden)
	}
	all, err := u.drafts.ListByCreator(ctx, actor.UserID, orgID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	live := make([]domain.CampaignDraft, 0, len(all))
	for _, d := range all {
		if !d.Expired(now) {
			live = append(live, d)
		}
	}
	return live, nil
}

// Delete removes the caller's own draft. An absent id is a no-op, per the
// store's delete semantics.
func (u *DraftUseCase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if actor.UserID == "" {
		return fmt.Errorf("%w: identity required", port.ErrForbidden)
	}
	d, err := u.drafts.Get(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return nil
	}
	if d.CreatorID != actor.UserID {
		return fmt.Errorf("%w: draft %s belongs to another user", port.ErrForbidden, id)
	}
	return u.drafts.Delete(ctx, id)
}

// CleanupExpired is the internal sweep with no acting-user check. Running
// it twice in a row is safe; the second pass simply finds nothing.
func (u *DraftUseCase) CleanupExpired(ctx context.Context) (port.CleanupResult, error) {
	ids, err := u.drafts.DeleteExpired(ctx, u.now())
	if err != nil {
		return port.CleanupResult{}, err
	}
	metrics.DraftsSwept.Add(float64(len(ids)))
	return port.CleanupResult{Count: len(ids), DeletedIDs: ids}, nil
}

// CleanupExpiredByUser is the user-triggered sweep. It requires a resolved
// identity but intentionally sweeps all organizations: the table holds
// only user-owned ephemeral data, so global scope is a convenience for a
// low-privilege maintenance task, not a security boundary.
func (u *DraftUseCase) CleanupExpiredByUser(ctx context.Context, actor domain.Actor) (port.CleanupResult, error) {
	if actor.UserID == "" {
		return port.CleanupResult{}, fmt.Errorf("%w: identity required", port.ErrForbidden)
	}
	return u.CleanupExpired(ctx)
}

// validateSave checks the step bounds and whatever partial payload the
// draft currently holds. Absent fields are skipped, not violations.
func (u *DraftUseCase) validateSave(in port.SaveDraftInput, op string) error {
	res := validate.Data(in.Data)
	if in.Step < domain.DraftStepMin || in.Step > domain.DraftStepMax {
		res.Errors = append(res.Errors,
			fmt.Sprintf("step must be between %d and %d", domain.DraftStepMin, domain.DraftStepMax))
	}
	if !res.Valid() {
		metrics.ValidationFailures.WithLabelValues(op).Inc()
		return port.NewValidationError(res)
	}
	return nil
}

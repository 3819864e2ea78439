package domain

import "time"

// DraftTTL is how long a draft stays readable after creation. The expiry
// is fixed when the draft is first inserted and is never extended by
// later saves.
const DraftTTL = 30 * 24 * time.Hour

// Wizard step bounds. Step 5 is the preview step and carries no schema of
// its own.
const (
	DraftStepMin     = 1
	DraftStepMax     = 5
	DraftStepPreview = 5
)

// CampaignDraft stages in-progress wizard data keyed by creator and
// organization. Only the creator may read, update or delete it.
type CampaignDraft struct {
	ID             string
	OrganizationID string
	CreatorID      string
	Name           string
	Step           int
	Data           CampaignData
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ExpiresAt      time.Time
}

// Expired reports whether the draft is past its expiry at the given
// instant. Expired drafts are invisible to normal reads even before the
// sweeper physically removes them.
func (d *CampaignDraft) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}

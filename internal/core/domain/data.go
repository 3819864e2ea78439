package domain

import "time"

// CampaignData is the loosely assembled form of a campaign: the payload a
// wizard step produces, a draft stores, or an update patch carries. Scalar
// fields are pointers so "absent" and "zero" stay distinguishable; absent
// fields are skipped by validation and left untouched by a merge. Only a
// fully validated CampaignData ever reaches the campaign store.
type CampaignData struct {
	Name             *string            `json:"name,omitempty"`
	Description      *string            `json:"description,omitempty"`
	Status           *Status            `json:"status,omitempty"`
	Category         *Category          `json:"category,omitempty"`
	Priority         *Priority          `json:"priority,omitempty"`
	StartDate        *time.Time         `json:"start_date,omitempty"`
	EndDate          *time.Time         `json:"end_date,omitempty"`
	Budget           *float64           `json:"budget,omitempty"`
	Currency         *string            `json:"currency,omitempty"`
	BudgetAllocation map[string]float64 `json:"budget_allocation,omitempty"`
	Audiences        []AudienceSegment  `json:"audiences,omitempty"`
	Channels         []ChannelConfig    `json:"channels,omitempty"`
	KPIs             []KPI              `json:"kpis,omitempty"`
	CustomMetrics    []CustomMetric     `json:"custom_metrics,omitempty"`
	TeamMembers      []TeamMember       `json:"team_members,omitempty"`
}

// Meaningful reports whether the payload carries anything worth persisting:
// a non-empty name, or at least one audience, KPI or team member. Auto-save
// uses this to skip writes for empty wizard sessions.
func (d CampaignData) Meaningful() bool {
	if d.Name != nil && *d.Name != "" {
		return true
	}
	return len(d.Audiences) > 0 || len(d.KPIs) > 0 || len(d.TeamMembers) > 0
}

// ApplyTo overlays the present fields of d onto c. Collection fields
// replace wholesale; merging happens at field granularity, not element
// granularity, so the last writer of a list wins.
func (d CampaignData) ApplyTo(c *Campaign) {
	if d.Name != nil {
		c.Name = *d.Name
	}
	if d.Description != nil {
		c.Description = *d.Description
	}
	if d.Status != nil {
		c.Status = *d.Status
	}
	if d.Category != nil {
		c.Category = *d.Category
	}
	if d.Priority != nil {
		c.Priority = *d.Priority
	}
	if d.StartDate != nil {
		c.StartDate = *d.StartDate
	}
	if d.EndDate != nil {
		c.EndDate = *d.EndDate
	}
	if d.Budget != nil {
		c.Budget = *d.Budget
	}
	if d.Currency != nil {
		c.Currency = *d.Currency
	}
	if d.BudgetAllocation != nil {
		c.BudgetAllocation = d.BudgetAllocation
	}
	if d.Audiences != nil {
		c.Audiences = d.Audiences
	}
	if d.Channels != nil {
		c.Channels = d.Channels
	}
	if d.KPIs != nil {
		c.KPIs = d.KPIs
	}
	if d.CustomMetrics != nil {
		c.CustomMetrics = d.CustomMetrics
	}
	if d.TeamMembers != nil {
		c.TeamMembers = d.TeamMembers
	}
}

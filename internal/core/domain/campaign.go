package domain

import "time"

// Status is the lifecycle state of a campaign. A campaign starts out as a
// draft and becomes active only through an explicit publish.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Known reports whether s is one of the enumerated statuses.
func (s Status) Known() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Category classifies the kind of marketing work a campaign covers.
type Category string

const (
	CategoryPR      Category = "pr"
	CategoryContent Category = "content"
	CategorySocial  Category = "social"
	CategoryPaid    Category = "paid"
	CategoryMixed   Category = "mixed"
)

func (c Category) Known() bool {
	switch c {
	case CategoryPR, CategoryContent, CategorySocial, CategoryPaid, CategoryMixed:
		return true
	}
	return false
}

// Priority orders campaigns for the team working on them.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Known() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Role grants graduated edit rights on a campaign to a team member.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Known() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// TeamMember assigns a role on a campaign to a user.
type TeamMember struct {
	UserID     string    `json:"user_id"`
	Role       Role      `json:"role"`
	AssignedAt time.Time `json:"assigned_at"`
}

// Client grants a user read-only access to a campaign's results. Clients
// are disjoint from team members.
type Client struct {
	UserID     string    `json:"user_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// AgeRange bounds the targeted audience age, inclusive.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// AudienceSegment describes one targeted slice of the campaign's audience.
type AudienceSegment struct {
	Name          string   `json:"name"`
	Locations     []string `json:"locations"`
	AgeRange      AgeRange `json:"age_range"`
	Interests     []string `json:"interests,omitempty"`
	EstimatedSize *int64   `json:"estimated_size,omitempty"`
}

// ChannelConfig configures a single distribution channel. Budget is in the
// campaign's currency. Settings carries channel-specific options opaque to
// this subsystem.
type ChannelConfig struct {
	Type     string            `json:"type"`
	Enabled  bool              `json:"enabled"`
	Budget   float64           `json:"budget"`
	Settings map[string]string `json:"settings,omitempty"`
}

// KPI is a weighted target metric. Weights across a campaign's KPIs should
// sum to at most 100.
type KPI struct {
	Type      string  `json:"type"`
	Target    float64 `json:"target"`
	Timeframe string  `json:"timeframe"`
	Weight    float64 `json:"weight"`
}

// CustomMetric is a free-form goal tracked alongside the standard KPIs.
type CustomMetric struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Target      float64 `json:"target"`
	Unit        string  `json:"unit"`
}

// ImportSource records where an imported campaign came from. The pair
// (Platform, ExternalID) is unique across all campaigns.
type ImportSource struct {
	Platform   string    `json:"platform"`
	ExternalID string    `json:"external_id"`
	ImportedAt time.Time `json:"imported_at"`
}

// Campaign is the durable unit of marketing work: budgeted, dated, goal
// tracked, with role-scoped team and client access. Creation seeds the
// creator into TeamMembers as owner; the creator can never be re-assigned
// as a team member or client afterwards.
type Campaign struct {
	ID               string
	OrganizationID   string
	CreatorID        string
	Name             string
	Description      string
	Status           Status
	Category         Category
	Priority         Priority
	StartDate        time.Time
	EndDate          time.Time
	Budget           float64
	Currency         string
	BudgetAllocation map[string]float64
	Audiences        []AudienceSegment
	Channels         []ChannelConfig
	KPIs             []KPI
	CustomMetrics    []CustomMetric
	TeamMembers      []TeamMember
	Clients          []Client
	ImportSource     *ImportSource
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Member returns the team member entry for userID, or nil.
func (c *Campaign) Member(userID string) *TeamMember {
	for i := range c.TeamMembers {
		if c.TeamMembers[i].UserID == userID {
			return &c.TeamMembers[i]
		}
	}
	return nil
}

// IsClient reports whether userID appears in the campaign's client list.
func (c *Campaign) IsClient(userID string) bool {
	for _, cl := range c.Clients {
		if cl.UserID == userID {
			return true
		}
	}
	return false
}

package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campforge/internal/core/domain"
)

func validCampaign() *domain.Campaign {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Campaign{
		ID:             "c1",
		OrganizationID: "org1",
		CreatorID:      "creator",
		Name:           "Spring launch",
		Status:         domain.StatusDraft,
		Category:       domain.CategorySocial,
		Priority:       domain.PriorityMedium,
		StartDate:      start,
		EndDate:        start.AddDate(0, 2, 0),
		Budget:         1000,
		Currency:       "USD",
		BudgetAllocation: map[string]float64{
			"facebook": 600,
			"email":    400,
		},
		Audiences: []domain.AudienceSegment{{
			Name:      "US adults",
			Locations: []string{"US"},
			AgeRange:  domain.AgeRange{Min: 21, Max: 65},
		}},
		Channels: []domain.ChannelConfig{
			{Type: "facebook", Enabled: true, Budget: 600},
			{Type: "email", Enabled: true, Budget: 400},
		},
		KPIs: []domain.KPI{
			{Type: "impressions", Target: 100000, Timeframe: "monthly", Weight: 60},
			{Type: "conversions", Target: 500, Timeframe: "monthly", Weight: 40},
		},
		TeamMembers: []domain.TeamMember{
			{UserID: "creator", Role: domain.RoleOwner},
		},
	}
}

func TestCampaignValid(t *testing.T) {
	res := Campaign(validCampaign())
	require.Empty(t, res.Errors)
	assert.True(t, res.Valid())
}

func TestBudgetAllocation(t *testing.T) {
	tests := []struct {
		name   string
		alloc  map[string]float64
		budget float64
		valid  bool
		warns  bool
	}{
		{"balanced", map[string]float64{"a": 600, "b": 400}, 1000, true, false},
		{"within tolerance", map[string]float64{"a": 1000.005}, 1000, true, false},
		{"over budget", map[string]float64{"a": 700, "b": 400}, 1000, false, false},
		{"just over tolerance", map[string]float64{"a": 1000.02}, 1000, false, false},
		{"under allocated warns", map[string]float64{"a": 500}, 1000, true, true},
		{"negative slice", map[string]float64{"a": -5}, 0, false, false},
		{"zero budget all zero", map[string]float64{}, 0, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := BudgetAllocation(tt.alloc, tt.budget)
			assert.Equal(t, tt.valid, res.Valid(), "errors: %v", res.Errors)
			assert.Equal(t, tt.warns, len(res.Warnings) > 0, "warnings: %v", res.Warnings)
		})
	}
}

func TestKPIWeights(t *testing.T) {
	kpi := func(weights ...float64) []domain.KPI {
		out := make([]domain.KPI, len(weights))
		for i, w := range weights {
			out[i] = domain.KPI{Type: "clicks", Target: 10, Weight: w}
		}
		return out
	}

	res := KPIs(kpi(40, 40, 30))
	assert.False(t, res.Valid(), "sum 110 must fail")

	res = KPIs(kpi(40, 40, 20))
	assert.True(t, res.Valid())
	assert.Empty(t, res.Warnings)

	res = KPIs(kpi(30, 30))
	assert.True(t, res.Valid())
	assert.NotEmpty(t, res.Warnings, "sum under 100 should warn")

	res = KPIs([]domain.KPI{{Type: "clicks", Target: -1, Weight: 50}})
	assert.False(t, res.Valid(), "negative target must fail")
}

func TestCampaignDates(t *testing.T) {
	c := validCampaign()
	c.EndDate = c.StartDate
	res := Campaign(c)
	assert.False(t, res.Valid(), "equal dates must fail")

	c.EndDate = c.StartDate.Add(time.Millisecond)
	res = Campaign(c)
	assert.True(t, res.Valid(), "any positive duration is enough: %v", res.Errors)
}

func TestAudiences(t *testing.T) {
	seg := domain.AudienceSegment{
		Name:      "Teens",
		Locations: []string{"DE"},
		AgeRange:  domain.AgeRange{Min: 13, Max: 19},
	}
	assert.True(t, Audiences([]domain.AudienceSegment{seg}).Valid())

	noName := seg
	noName.Name = " "
	assert.False(t, Audiences([]domain.AudienceSegment{noName}).Valid())

	noLocation := seg
	noLocation.Locations = nil
	assert.False(t, Audiences([]domain.AudienceSegment{noLocation}).Valid())

	inverted := seg
	inverted.AgeRange = domain.AgeRange{Min: 40, Max: 20}
	assert.False(t, Audiences([]domain.AudienceSegment{inverted}).Valid())

	tooYoung := seg
	tooYoung.AgeRange = domain.AgeRange{Min: 10, Max: 20}
	assert.False(t, Audiences([]domain.AudienceSegment{tooYoung}).Valid())
}

func TestChannelMinimums(t *testing.T) {
	tests := []struct {
		channelType string
		budget      float64
		valid       bool
	}{
		{"facebook", 5, true},
		{"facebook", 4.99, false},
		{"youtube", 15, true},
		{"youtube", 10, false},
		{"google_ads", 19, false},
		{"email", 0, true},
		{"unlisted", 0, true},
	}
	for _, tt := range tests {
		res := Channels([]domain.ChannelConfig{{Type: tt.channelType, Enabled: true, Budget: tt.budget}})
		assert.Equal(t, tt.valid, res.Valid(), "%s with %.2f", tt.channelType, tt.budget)
	}

	// a disabled channel is exempt from its minimum
	res := Channels([]domain.ChannelConfig{{Type: "youtube", Enabled: false, Budget: 0}})
	assert.True(t, res.Valid())
}

func TestCustomMetrics(t *testing.T) {
	ok := domain.CustomMetric{Name: "signups", Target: 100, Unit: "users"}
	assert.True(t, CustomMetrics([]domain.CustomMetric{ok}).Valid())

	noUnit := domain.CustomMetric{Name: "signups", Target: 100}
	assert.False(t, CustomMetrics([]domain.CustomMetric{noUnit}).Valid())

	zeroTarget := domain.CustomMetric{Name: "signups", Target: 0}
	assert.True(t, CustomMetrics([]domain.CustomMetric{zeroTarget}).Valid(),
		"unit only required once a target is set")
}

func TestTeamMembers(t *testing.T) {
	res := TeamMembers([]domain.TeamMember{
		{UserID: "u1", Role: domain.RoleOwner},
		{UserID: "u1", Role: domain.RoleViewer},
	})
	assert.False(t, res.Valid(), "duplicate user must fail")

	res = TeamMembers([]domain.TeamMember{{UserID: "u1", Role: "admin"}})
	assert.False(t, res.Valid(), "unknown role must fail")
}

func TestDataSkipsAbsentFields(t *testing.T) {
	// an empty payload has nothing to violate
	assert.True(t, Data(domain.CampaignData{}).Valid())

	bad := domain.StatusDraft
	budget := -5.0
	res := Data(domain.CampaignData{Status: &bad, Budget: &budget})
	assert.False(t, res.Valid())
	assert.Len(t, res.Errors, 1, "only the present invalid field counts")
}

func TestPublicationReadiness(t *testing.T) {
	c := validCampaign()
	require.True(t, PublicationReadiness(c).Valid())

	noChannel := validCampaign()
	for i := range noChannel.Channels {
		noChannel.Channels[i].Enabled = false
	}
	res := PublicationReadiness(noChannel)
	assert.False(t, res.Valid())
	assert.Contains(t, res.Message(), "enabled channel")

	noAudience := validCampaign()
	noAudience.Audiences = nil
	assert.False(t, PublicationReadiness(noAudience).Valid())

	noOwner := validCampaign()
	noOwner.TeamMembers = []domain.TeamMember{{UserID: "e", Role: domain.RoleEditor}}
	assert.False(t, PublicationReadiness(noOwner).Valid())

	unbalanced := validCampaign()
	unbalanced.BudgetAllocation = map[string]float64{"facebook": 100}
	assert.False(t, PublicationReadiness(unbalanced).Valid(),
		"publish requires full allocation balance, not just not-over")
}

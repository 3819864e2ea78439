// Package validate holds the pure checkers for campaign-shaped data. Every
// checker returns a Result instead of an error so callers can aggregate all
// violations across checkers and hand the caller one complete fix-list.
package validate

import (
	"fmt"
	"math"
	"strings"

	"campforge/internal/core/domain"
)

// AllocationTolerance absorbs float rounding when comparing the sum of a
// budget allocation against the total budget.
const AllocationTolerance = 0.01

// Audience age bounds accepted by ad platforms.
const (
	AudienceAgeMin = 13
	AudienceAgeMax = 100
)

// Delimiter joins the violations of one Result into the single message the
// external contract promises. Callers may split on it to route each
// violation back to its originating form step.
const Delimiter = " | "

// channelMinBudget is the fixed per-channel-type minimum budget for an
// enabled channel. Types absent from the table have no minimum.
var channelMinBudget = map[string]float64{
	"facebook":   5,
	"instagram":  5,
	"twitter":    10,
	"linkedin":   10,
	"youtube":    15,
	"google_ads": 20,
	"email":      0,
	"content":    0,
	"pr":         0,
}

// ChannelMinBudget returns the minimum budget required for an enabled
// channel of the given type.
func ChannelMinBudget(channelType string) float64 {
	return channelMinBudget[channelType]
}

// Result accumulates violations and advisories from one or more checkers.
// The zero value is a valid result.
type Result struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether no error-level violations were recorded. Warnings
// do not affect validity.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Message joins all error-level violations with Delimiter.
func (r Result) Message() string { return strings.Join(r.Errors, Delimiter) }

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Status checks that s is one of the enumerated campaign statuses.
func Status(s domain.Status) Result {
	var r Result
	if !s.Known() {
		r.errorf("unknown status %q", s)
	}
	return r
}

// CampaignDates checks that both instants are set and the end strictly
// follows the start.
func CampaignDates(c *domain.Campaign) Result {
	var r Result
	if c.StartDate.IsZero() {
		r.errorf("start date is required")
	}
	if c.EndDate.IsZero() {
		r.errorf("end date is required")
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && !c.EndDate.After(c.StartDate) {
		r.errorf("end date must be after start date")
	}
	return r
}

// Budget checks that the total budget is a non-negative finite number.
func Budget(budget float64) Result {
	var r Result
	if math.IsNaN(budget) || math.IsInf(budget, 0) {
		r.errorf("budget must be a finite number")
		return r
	}
	if budget < 0 {
		r.errorf("budget must not be negative")
	}
	return r
}

// BudgetAllocation checks the per-channel allocation against the total
// budget. Each slice must be non-negative. When the budget is positive the
// allocated sum may not exceed it beyond AllocationTolerance;
// under-allocation is reported as a warning so a draft can stay editable.
// An all-zero allocation with a zero budget is valid.
func BudgetAllocation(alloc map[string]float64, budget float64) Result {
	var r Result
	var sum float64
	for channel, amount := range alloc {
		if amount < 0 {
			r.errorf("allocation for %s must not be negative", channel)
		}
		sum += amount
	}
	if budget <= 0 {
		return r
	}
	if sum > budget+AllocationTolerance {
		r.errorf("allocated %.2f exceeds total budget %.2f", sum, budget)
	} else if sum < budget-AllocationTolerance {
		r.warnf("%.2f of the budget is unallocated", budget-sum)
	}
	return r
}

// Audiences checks every audience segment: non-empty name, at least one
// location, and an ordered age range within the accepted bounds.
func Audiences(segments []domain.AudienceSegment) Result {
	var r Result
	for i, seg := range segments {
		if strings.TrimSpace(seg.Name) == "" {
			r.errorf("audience %d: name is required", i+1)
		}
		if len(seg.Locations) == 0 {
			r.errorf("audience %d: at least one location is required", i+1)
		}
		if seg.AgeRange.Min > seg.AgeRange.Max {
			r.errorf("audience %d: age range is inverted", i+1)
		}
		if seg.AgeRange.Min < AudienceAgeMin || seg.AgeRange.Max > AudienceAgeMax {
			r.errorf("audience %d: age range must be within %d-%d", i+1, AudienceAgeMin, AudienceAgeMax)
		}
	}
	return r
}

// KPIs checks every KPI and the combined weight. A weight sum over 100 is
// an error; a sum under 100 is only a warning.
func KPIs(kpis []domain.KPI) Result {
	var r Result
	var weightSum float64
	for i, k := range kpis {
		if k.Target < 0 {
			r.errorf("kpi %d: target must not be negative", i+1)
		}
		if k.Weight < 0 || k.Weight > 100 {
			r.errorf("kpi %d: weight must be between 0 and 100", i+1)
		}
		weightSum += k.Weight
	}
	if weightSum > 100 {
		r.errorf("kpi weights sum to %.0f, must not exceed 100", weightSum)
	} else if len(kpis) > 0 && weightSum < 100 {
		r.warnf("kpi weights sum to %.0f, leaving %.0f unassigned", weightSum, 100-weightSum)
	}
	return r
}

// TeamMembers checks that every role is known and no user appears twice.
func TeamMembers(members []domain.TeamMember) Result {
	var r Result
	seen := make(map[string]bool, len(members))
	for i, m := range members {
		if !m.Role.Known() {
			r.errorf("team member %d: unknown role %q", i+1, m.Role)
		}
		if seen[m.UserID] {
			r.errorf("team member %s is assigned more than once", m.UserID)
		}
		seen[m.UserID] = true
	}
	return r
}

// Channels checks that every enabled channel carries at least the minimum
// budget for its type.
func Channels(channels []domain.ChannelConfig) Result {
	var r Result
	for _, ch := range channels {
		if ch.Budget < 0 {
			r.errorf("channel %s: budget must not be negative", ch.Type)
			continue
		}
		if !ch.Enabled {
			continue
		}
		if min := ChannelMinBudget(ch.Type); ch.Budget < min {
			r.errorf("channel %s: budget %.2f is below the %.2f minimum", ch.Type, ch.Budget, min)
		}
	}
	return r
}

// CustomMetrics checks that targets are non-negative and that any metric
// with a positive target names its unit.
func CustomMetrics(metrics []domain.CustomMetric) Result {
	var r Result
	for i, m := range metrics {
		if strings.TrimSpace(m.Name) == "" {
			r.errorf("custom metric %d: name is required", i+1)
		}
		if m.Target < 0 {
			r.errorf("custom metric %d: target must not be negative", i+1)
		}
		if m.Target > 0 && strings.TrimSpace(m.Unit) == "" {
			r.errorf("custom metric %d: unit is required when a target is set", i+1)
		}
	}
	return r
}

// Data validates a partial campaign payload. Absent fields are skipped,
// not treated as violations, so wizard steps can be checked as they are
// filled in.
func Data(d domain.CampaignData) Result {
	var r Result
	if d.Status != nil {
		r.merge(Status(*d.Status))
	}
	if d.Category != nil && !d.Category.Known() {
		r.errorf("unknown category %q", *d.Category)
	}
	if d.Priority != nil && !d.Priority.Known() {
		r.errorf("unknown priority %q", *d.Priority)
	}
	if d.StartDate != nil && d.EndDate != nil && !d.EndDate.After(*d.StartDate) {
		r.errorf("end date must be after start date")
	}
	if d.Budget != nil {
		r.merge(Budget(*d.Budget))
	}
	if d.BudgetAllocation != nil {
		budget := 0.0
		if d.Budget != nil {
			budget = *d.Budget
		}
		r.merge(BudgetAllocation(d.BudgetAllocation, budget))
	}
	if len(d.Audiences) > 0 {
		r.merge(Audiences(d.Audiences))
	}
	if len(d.KPIs) > 0 {
		r.merge(KPIs(d.KPIs))
	}
	if len(d.TeamMembers) > 0 {
		r.merge(TeamMembers(d.TeamMembers))
	}
	if len(d.Channels) > 0 {
		r.merge(Channels(d.Channels))
	}
	if len(d.CustomMetrics) > 0 {
		r.merge(CustomMetrics(d.CustomMetrics))
	}
	return r
}

// Campaign runs every checker against a fully assembled record. This is
// the gate every create, update and import passes before a write.
func Campaign(c *domain.Campaign) Result {
	var r Result
	if strings.TrimSpace(c.Name) == "" {
		r.errorf("name is required")
	}
	r.merge(Status(c.Status))
	if !c.Category.Known() {
		r.errorf("unknown category %q", c.Category)
	}
	if !c.Priority.Known() {
		r.errorf("unknown priority %q", c.Priority)
	}
	r.merge(CampaignDates(c))
	r.merge(Budget(c.Budget))
	r.merge(BudgetAllocation(c.BudgetAllocation, c.Budget))
	r.merge(Audiences(c.Audiences))
	r.merge(KPIs(c.KPIs))
	r.merge(TeamMembers(c.TeamMembers))
	r.merge(Channels(c.Channels))
	r.merge(CustomMetrics(c.CustomMetrics))
	return r
}

// PublicationReadiness is the stricter composite check run only at publish
// time: at least one enabled channel, at least one audience, owner
// coverage on the team, and a fully balanced budget allocation, on top of
// the regular Campaign checks.
func PublicationReadiness(c *domain.Campaign) Result {
	r := Campaign(c)

	enabled := false
	for _, ch := range c.Channels {
		if ch.Enabled {
			enabled = true
			break
		}
	}
	if !enabled {
		r.errorf("at least one enabled channel is required to publish")
	}
	if len(c.Audiences) == 0 {
		r.errorf("at least one audience is required to publish")
	}
	owner := false
	for _, m := range c.TeamMembers {
		if m.Role == domain.RoleOwner {
			owner = true
			break
		}
	}
	if !owner {
		r.errorf("at least one team member with the owner role is required to publish")
	}
	if c.Budget > 0 {
		var sum float64
		for _, amount := range c.BudgetAllocation {
			sum += amount
		}
		if math.Abs(sum-c.Budget) > AllocationTolerance {
			r.errorf("budget allocation must balance the total budget before publishing")
		}
	}
	return r
}

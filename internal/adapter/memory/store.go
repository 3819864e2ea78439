// Package memory provides map-backed implementations of the repository
// ports. The usecase tests run against it instead of Postgres, and the
// demo mode uses it when no database is configured. All methods are safe
// for concurrent use and hand out copies, never internal state.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"campforge/internal/core/domain"
	"campforge/internal/core/port"
)

// OrganizationStore implements port.OrganizationRepository.
type OrganizationStore struct {
	mu   sync.RWMutex
	orgs map[string]domain.Organization
}

// NewOrganizationStore returns an empty organization store.
func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{orgs: make(map[string]domain.Organization)}
}

// Add registers an organization so existence checks pass.
func (s *OrganizationStore) Add(org domain.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs[org.ID] = org
}

// Exists implements port.OrganizationRepository.
func (s *OrganizationStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.orgs[id]
	return ok, nil
}

// CampaignStore implements port.CampaignRepository.
type CampaignStore struct {
	mu        sync.RWMutex
	campaigns map[string]domain.Campaign
}

// NewCampaignStore returns an empty campaign store.
func NewCampaignStore() *CampaignStore {
	return &CampaignStore{campaigns: make(map[string]domain.Campaign)}
}

// Create implements port.CampaignRepository. The import-source pair is
// unique across the store, matching the database's partial index.
func (s *CampaignStore) Create(_ context.Context, c *domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ImportSource != nil {
		for _, existing := range s.campaigns {
			if existing.ImportSource != nil &&
				existing.ImportSource.Platform == c.ImportSource.Platform &&
				existing.ImportSource.ExternalID == c.ImportSource.ExternalID {
				return fmt.Errorf("%w: import source %s/%s already used",
					port.ErrConflict, c.ImportSource.Platform, c.ImportSource.ExternalID)
			}
		}
	}
	s.campaigns[c.ID] = cloneCampaign(*c)
	return nil
}

// Get implements port.CampaignRepository; absent ids return (nil, nil).
func (s *CampaignStore) Get(_ context.Context, id string) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, nil
	}
	out := cloneCampaign(c)
	return &out, nil
}

// Update implements port.CampaignRepository.
func (s *CampaignStore) Update(_ context.Context, c *domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[c.ID]; !ok {
		return fmt.Errorf("%w: campaign %s", port.ErrNotFound, c.ID)
	}
	s.campaigns[c.ID] = cloneCampaign(*c)
	return nil
}

// Delete implements port.CampaignRepository. Absent ids are a no-op.
func (s *CampaignStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.campaigns, id)
	return nil
}

// ListByOrganization implements port.CampaignRepository. Results are
// ordered by creation time so listings stay stable.
func (s *CampaignStore) ListByOrganization(_ context.Context, orgID string) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Campaign
	for _, c := range s.campaigns {
		if c.OrganizationID == orgID {
			out = append(out, cloneCampaign(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// FindByImportSource implements port.CampaignRepository.
func (s *CampaignStore) FindByImportSource(_ context.Context, platform, externalID string) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.campaigns {
		if c.ImportSource != nil && c.ImportSource.Platform == platform && c.ImportSource.ExternalID == externalID {
			out := cloneCampaign(c)
			return &out, nil
		}
	}
	return nil, nil
}

func cloneCampaign(c domain.Campaign) domain.Campaign {
	out := c
	if c.BudgetAllocation != nil {
		out.BudgetAllocation = make(map[string]float64, len(c.BudgetAllocation))
		for k, v := range c.BudgetAllocation {
			out.BudgetAllocation[k] = v
		}
	}
	out.Audiences = append([]domain.AudienceSegment(nil), c.Audiences...)
	out.Channels = append([]domain.ChannelConfig(nil), c.Channels...)
	out.KPIs = append([]domain.KPI(nil), c.KPIs...)
	out.CustomMetrics = append([]domain.CustomMetric(nil), c.CustomMetrics...)
	out.TeamMembers = append([]domain.TeamMember(nil), c.TeamMembers...)
	out.Clients = append([]domain.Client(nil), c.Clients...)
	if c.ImportSource != nil {
		src := *c.ImportSource
		out.ImportSource = &src
	}
	return out
}

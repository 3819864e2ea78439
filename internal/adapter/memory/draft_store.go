package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"campforge/internal/core/domain"
	"campforge/internal/core/port"
)

// DraftStore implements port.DraftRepository in memory.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string]domain.CampaignDraft
}

// NewDraftStore returns an empty draft store.
func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string]domain.CampaignDraft)}
}

// Insert implements port.DraftRepository.
func (s *DraftStore) Insert(_ context.Context, d *domain.CampaignDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = *d
	return nil
}

// Update implements port.DraftRepository. CreatedAt and ExpiresAt of the
// stored record are kept regardless of what the caller passes.
func (s *DraftStore) Update(_ context.Context, d *domain.CampaignDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.drafts[d.ID]
	if !ok {
		return fmt.Errorf("%w: draft %s", port.ErrNotFound, d.ID)
	}
	updated := *d
	updated.CreatedAt = existing.CreatedAt
	updated.ExpiresAt = existing.ExpiresAt
	s.drafts[d.ID] = updated
	return nil
}

// Get implements port.DraftRepository; absent ids return (nil, nil).
// Expiry filtering is the usecase's concern, not the store's.
func (s *DraftStore) Get(_ context.Context, id string) (*domain.CampaignDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, nil
	}
	out := d
	return &out, nil
}

// Delete implements port.DraftRepository. Absent ids are a no-op.
func (s *DraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

// ListByCreator implements port.DraftRepository, most recently updated
// first.
func (s *DraftStore) ListByCreator(_ context.Context, creatorID, orgID string) ([]domain.CampaignDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CampaignDraft
	for _, d := range s.drafts {
		if d.CreatorID == creatorID && d.OrganizationID == orgID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// FindByName implements port.DraftRepository.
func (s *DraftStore) FindByName(_ context.Context, creatorID, orgID, name string) (*domain.CampaignDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.drafts {
		if d.CreatorID == creatorID && d.OrganizationID == orgID && d.Name == name {
			out := d
			return &out, nil
		}
	}
	return nil, nil
}

// DeleteExpired implements port.DraftRepository. Each deletion targets a
// specific id, so concurrent sweeps cannot double-count the same draft.
func (s *DraftStore) DeleteExpired(_ context.Context, now time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []string
	for id, d := range s.drafts {
		if !now.Before(d.ExpiresAt) {
			delete(s.drafts, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed, nil
}

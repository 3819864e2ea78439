// Package access holds the authorization predicates for campaigns. These
// pure functions are the only gate: every mutation and every query filter
// goes through them, so the rules for one action can never drift between
// call sites.
package access

import "campforge/internal/core/domain"

// EffectiveRole values beyond the team-member roles.
const (
	EffectiveCreator = "creator"
	EffectiveClient  = "client"
)

// CanView reports whether the user may read the campaign: the creator,
// any team member, or any client.
func CanView(userID string, c *domain.Campaign) bool {
	if userID == "" {
		return false
	}
	return c.CreatorID == userID || c.Member(userID) != nil || c.IsClient(userID)
}

// CanEdit reports whether the user may modify campaign fields: the
// creator, or a team member with the owner or editor role.
func CanEdit(userID string, c *domain.Campaign) bool {
	if userID == "" {
		return false
	}
	if c.CreatorID == userID {
		return true
	}
	if m := c.Member(userID); m != nil {
		return m.Role == domain.RoleOwner || m.Role == domain.RoleEditor
	}
	return false
}

// CanDelete reports whether the user may delete the campaign: the creator
// or an owner.
func CanDelete(userID string, c *domain.Campaign) bool {
	if userID == "" {
		return false
	}
	if c.CreatorID == userID {
		return true
	}
	if m := c.Member(userID); m != nil {
		return m.Role == domain.RoleOwner
	}
	return false
}

// CanManageTeam reports whether the user may add, remove or reassign team
// members: the creator or an owner.
func CanManageTeam(userID string, c *domain.Campaign) bool {
	return CanDelete(userID, c)
}

// CanManageClients reports whether the user may add or remove clients: the
// creator, or a team member with the owner or editor role.
func CanManageClients(userID string, c *domain.Campaign) bool {
	return CanEdit(userID, c)
}

// EffectiveRole resolves the user's strongest relationship to the
// campaign, checked in priority order: creator, then team-member role,
// then client. The second return is false when the user has no
// relationship at all.
func EffectiveRole(userID string, c *domain.Campaign) (string, bool) {
	if userID == "" {
		return "", false
	}
	if c.CreatorID == userID {
		return EffectiveCreator, true
	}
	if m := c.Member(userID); m != nil {
		return string(m.Role), true
	}
	if c.IsClient(userID) {
		return EffectiveClient, true
	}
	return "", false
}

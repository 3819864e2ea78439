package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campforge/internal/core/domain"
	"campforge/internal/core/port"
)

type saveDraftRequest struct {
	DraftID        string              `json:"draft_id"`
	OrganizationID string              `json:"organization_id"`
	Name           string              `json:"name"`
	Step           int                 `json:"step" validate:"required,min=1,max=5"`
	Data           domain.CampaignData `json:"data"`
}

type draftResponse struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organization_id"`
	CreatorID      string              `json:"creator_id"`
	Name           string              `json:"name"`
	Step           int                 `json:"step"`
	Data           domain.CampaignData `json:"data"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	ExpiresAt      time.Time           `json:"expires_at"`
}

func toDraftResponse(d *domain.CampaignDraft) draftResponse {
	return draftResponse{
		ID:             d.ID,
		OrganizationID: d.OrganizationID,
		CreatorID:      d.CreatorID,
		Name:           d.Name,
		Step:           d.Step,
		Data:           d.Data,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		ExpiresAt:      d.ExpiresAt,
	}
}

func (h *Handler) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var req saveDraftRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id, err := h.drafts.Save(r.Context(), actorFrom(r), port.SaveDraftInput{
		DraftID:        req.DraftID,
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Step:           req.Step,
		Data:           req.Data,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		http.Error(w, "missing organization_id", http.StatusBadRequest)
		return
	}
	drafts, err := h.drafts.ListMine(r.Context(), actorFrom(r), orgID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]draftResponse, 0, len(drafts))
	for i := range drafts {
		out = append(out, toDraftResponse(&drafts[i]))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.drafts.Get(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toDraftResponse(d))
}

func (h *Handler) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCleanupDrafts triggers the global expired-draft sweep. Any
// authenticated user may run it; the table holds only user-owned
// ephemeral data.
func (h *Handler) handleCleanupDrafts(w http.ResponseWriter, r *http.Request) {
	res, err := h.drafts.CleanupExpiredByUser(r.Context(), actorFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campforge/internal/core/domain"
	"campforge/internal/core/port"
)

type createCampaignRequest struct {
	OrganizationID string              `json:"organization_id" validate:"required"`
	Name           string              `json:"name" validate:"required"`
	StartDate      time.Time           `json:"start_date" validate:"required"`
	EndDate        time.Time           `json:"end_date" validate:"required"`
	Budget         float64             `json:"budget"`
	Activate       bool                `json:"activate"`
	Data           domain.CampaignData `json:"data"`
}

type importCampaignRequest struct {
	createCampaignRequest
	Platform   string `json:"platform" validate:"required"`
	ExternalID string `json:"external_id" validate:"required"`
}

type campaignResponse struct {
	ID               string                   `json:"id"`
	OrganizationID   string                   `json:"organization_id"`
	CreatorID        string                   `json:"creator_id"`
	Name             string                   `json:"name"`
	Description      string                   `json:"description,omitempty"`
	Status           domain.Status            `json:"status"`
	Category         domain.Category          `json:"category"`
	Priority         domain.Priority          `json:"priority"`
	StartDate        time.Time                `json:"start_date"`
	EndDate          time.Time                `json:"end_date"`
	Budget           float64                  `json:"budget"`
	Currency         string                   `json:"currency"`
	BudgetAllocation map[string]float64       `json:"budget_allocation,omitempty"`
	Audiences        []domain.AudienceSegment `json:"audiences,omitempty"`
	Channels         []domain.ChannelConfig   `json:"channels,omitempty"`
	KPIs             []domain.KPI             `json:"kpis,omitempty"`
	CustomMetrics    []domain.CustomMetric    `json:"custom_metrics,omitempty"`
	TeamMembers      []domain.TeamMember      `json:"team_members"`
	Clients          []domain.Client          `json:"clients,omitempty"`
	ImportSource     *domain.ImportSource     `json:"import_source,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:               c.ID,
		OrganizationID:   c.OrganizationID,
		CreatorID:        c.CreatorID,
		Name:             c.Name,
		Description:      c.Description,
		Status:           c.Status,
		Category:         c.Category,
		Priority:         c.Priority,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		Budget:           c.Budget,
		Currency:         c.Currency,
		BudgetAllocation: c.BudgetAllocation,
		Audiences:        c.Audiences,
		Channels:         c.Channels,
		KPIs:             c.KPIs,
		CustomMetrics:    c.CustomMetrics,
		TeamMembers:      c.TeamMembers,
		Clients:          c.Clients,
		ImportSource:     c.ImportSource,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id, err := h.campaigns.Create(r.Context(), actorFrom(r), port.CreateCampaignInput{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Budget:         req.Budget,
		Data:           req.Data,
		Activate:       req.Activate,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleImportCampaign(w http.ResponseWriter, r *http.Request) {
	var req importCampaignRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id, err := h.campaigns.Import(r.Context(), actorFrom(r), port.ImportCampaignInput{
		CreateCampaignInput: port.CreateCampaignInput{
			OrganizationID: req.OrganizationID,
			Name:           req.Name,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			Budget:         req.Budget,
			Data:           req.Data,
		},
		Platform:   req.Platform,
		ExternalID: req.ExternalID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("organization_id")
	if orgID == "" {
		http.Error(w, "missing organization_id", http.StatusBadRequest)
		return
	}
	campaigns, err := h.campaigns.ListByOrganization(r.Context(), actorFrom(r), orgID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]campaignResponse, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, toCampaignResponse(&campaigns[i]))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.campaigns.Get(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

func (h *Handler) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var patch domain.CampaignData
	if err := h.decode(r, &patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.campaigns.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePublishCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.campaigns.Publish(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.campaigns.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleEffectiveRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.campaigns.EffectiveRole(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"role": role})
}

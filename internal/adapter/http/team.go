package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"campforge/internal/core/domain"
)

type addTeamMemberRequest struct {
	UserID string      `json:"user_id" validate:"required"`
	Role   domain.Role `json:"role" validate:"required,oneof=owner editor viewer"`
}

type changeRoleRequest struct {
	Role domain.Role `json:"role" validate:"required,oneof=owner editor viewer"`
}

type addClientRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

func (h *Handler) handleAddTeamMember(w http.ResponseWriter, r *http.Request) {
	var req addTeamMemberRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	err := h.campaigns.AddTeamMember(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.UserID, req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleChangeTeamMemberRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	err := h.campaigns.ChangeTeamMemberRole(r.Context(), actorFrom(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "userID"), req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	err := h.campaigns.RemoveTeamMember(r.Context(), actorFrom(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddClient(w http.ResponseWriter, r *http.Request) {
	var req addClientRequest
	if err := h.decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	err := h.campaigns.AddClient(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveClient(w http.ResponseWriter, r *http.Request) {
	err := h.campaigns.RemoveClient(r.Context(), actorFrom(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"campforge/internal/core/port"
)

// errorResponse is the single error shape every endpoint returns. For
// validation failures Violations lists every failed rule so a client can
// route each one back to its originating form step.
type errorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

// writeJSON encodes v with the given status. Encoding failures are logged
// and otherwise dropped; headers are already out.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Unknown errors
// are logged and answered with a generic 500 so internals never leak.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *port.ValidationError
	switch {
	case errors.As(err, &ve):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:      ve.Error(),
			Violations: ve.Violations,
		})
	case errors.Is(err, port.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, port.ErrForbidden):
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, port.ErrConflict):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, port.ErrInvalidState):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("internal error",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decode parses the JSON body into dst and checks its validate tags.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}

package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campforge/internal/core/port"
)

// Handler is the inbound HTTP adapter. It holds the usecases, a logger
// and a request validator, and registers every route on a chi.Router.
// Identity arrives as the X-User-Id header set by the authenticating
// proxy; this service only threads it through as an Actor.
type Handler struct {
	campaigns port.CampaignUseCase
	drafts    port.DraftUseCase
	logger    *slog.Logger
	validate  *validator.Validate
	router    chi.Router
}

// Options tunes transport-level behaviour.
type Options struct {
	// RatePerSecond and RateBurst bound per-client request rates; zero
	// disables rate limiting.
	RatePerSecond float64
	RateBurst     int
}

// NewHandler creates a handler with all routes configured.
func NewHandler(campaigns port.CampaignUseCase, drafts port.DraftUseCase, logger *slog.Logger, opts Options) *Handler {
	h := &Handler{
		campaigns: campaigns,
		drafts:    drafts,
		logger:    logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RatePerSecond > 0 {
			r.Use(rateLimit(opts.RatePerSecond, opts.RateBurst))
		}
		r.Use(identity)

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", h.handleCreateCampaign)
			r.Post("/import", h.handleImportCampaign)
			r.Get("/", h.handleListCampaigns)
			r.Get("/{id}", h.handleGetCampaign)
			r.Patch("/{id}", h.handleUpdateCampaign)
			r.Delete("/{id}", h.handleDeleteCampaign)
			r.Post("/{id}/publish", h.handlePublishCampaign)
			r.Get("/{id}/role", h.handleEffectiveRole)

			r.Post("/{id}/team", h.handleAddTeamMember)
			r.Put("/{id}/team/{userID}", h.handleChangeTeamMemberRole)
			r.Delete("/{id}/team/{userID}", h.handleRemoveTeamMember)

			r.Post("/{id}/clients", h.handleAddClient)
			r.Delete("/{id}/clients/{userID}", h.handleRemoveClient)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", h.handleSaveDraft)
			r.Get("/", h.handleListDrafts)
			r.Get("/{id}", h.handleGetDraft)
			r.Delete("/{id}", h.handleDeleteDraft)
			r.Post("/cleanup", h.handleCleanupDrafts)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

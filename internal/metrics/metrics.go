package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CampaignsCreated counts campaign creations by entry point
	// (direct, wizard, import).
	CampaignsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campforge_campaigns_created_total",
			Help: "Number of campaigns created, labelled by source",
		},
		[]string{"source"},
	)

	// CampaignsPublished counts publish attempts by outcome.
	CampaignsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campforge_campaigns_published_total",
			Help: "Number of publish attempts, labelled by outcome",
		},
		[]string{"status"}, // success or failure
	)

	// DraftSaves counts draft upserts by kind (insert or update).
	DraftSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campforge_draft_saves_total",
			Help: "Number of draft saves, labelled by kind",
		},
		[]string{"kind"},
	)

	// DraftsSwept counts drafts removed by the expiry sweep.
	DraftsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campforge_drafts_swept_total",
			Help: "Number of expired drafts removed by cleanup",
		},
	)

	// ValidationFailures counts mutations rejected by validation,
	// labelled by operation.
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campforge_validation_failures_total",
			Help: "Number of mutations rejected by validation",
		},
		[]string{"operation"},
	)
)

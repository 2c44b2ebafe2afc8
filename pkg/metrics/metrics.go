// Package metrics provides Prometheus metrics for the exchange service.
package metrics

import (
	"time"

	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeCreated  = "created"
	OutcomeReused   = "reused"
	OutcomeImported = "imported"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

var (
	// ExchangeRequestsTotal tracks exchange operations by phase and status
	ExchangeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mint",
			Subsystem: "exchange",
			Name:      "requests_total",
			Help:      "Total number of exchange operations by phase and status",
		},
		[]string{"phase", "status"},
	)

	// ExchangeDuration tracks exchange operation duration in seconds
	ExchangeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mint",
			Subsystem: "exchange",
			Name:      "duration_seconds",
			Help:      "Duration of exchange operations in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"phase"},
	)

	// ExchangeEntitiesTotal tracks reconciled entities by kind and outcome
	ExchangeEntitiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mint",
			Subsystem: "exchange",
			Name:      "entities_total",
			Help:      "Total number of reconciled entities by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)

// ObserveRequest records one finished phase.
func ObserveRequest(phase string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ExchangeRequestsTotal.WithLabelValues(phase, status).Inc()
	ExchangeDuration.WithLabelValues(phase).Observe(time.Since(started).Seconds())
}

// ObserveEntities records the per-kind outcome counts of an execute.
func ObserveEntities(created, reused map[models.EntityKind]int, imported, skipped int, failed map[string]int) {
	for kind, count := range created {
		ExchangeEntitiesTotal.WithLabelValues(string(kind), OutcomeCreated).Add(float64(count))
	}
	for kind, count := range reused {
		ExchangeEntitiesTotal.WithLabelValues(string(kind), OutcomeReused).Add(float64(count))
	}
	if imported > 0 {
		ExchangeEntitiesTotal.WithLabelValues(string(models.KindCocktails), OutcomeImported).Add(float64(imported))
	}
	if skipped > 0 {
		ExchangeEntitiesTotal.WithLabelValues(string(models.KindCocktails), OutcomeSkipped).Add(float64(skipped))
	}
	for kind, count := range failed {
		ExchangeEntitiesTotal.WithLabelValues(kind, OutcomeFailed).Add(float64(count))
	}
}

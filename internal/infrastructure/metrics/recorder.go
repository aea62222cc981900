// Package metrics exposes pipeline outcomes as Prometheus series.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/service/search"
)

const namespace = "mortgage_deals"

// Recorder implements the ingestion and search recorders.
type Recorder struct {
	sourceRuns     *prometheus.CounterVec
	sourceDuration *prometheus.HistogramVec
	deals          *prometheus.CounterVec
	queryTiers     *prometheus.CounterVec
	queryErrors    prometheus.Counter
}

func NewRecorder(registerer prometheus.Registerer) *Recorder {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		sourceRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "source_runs_total",
			Help:      "Source acquisitions per ingestion pass by outcome.",
		}, []string{"source", "status"}),
		sourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "source_duration_seconds",
			Help:      "Wall time of one source within an ingestion pass.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60, 120},
		}, []string{"source"}),
		deals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "deals_total",
			Help:      "Candidates by fate: persisted, discarded by the normalizer or failed to write.",
		}, []string{"source", "outcome"}),
		queryTiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "answers_total",
			Help:      "Deal queries by the fallback tier that answered.",
		}, []string{"tier"}),
		queryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "repository_errors_total",
			Help:      "Repository reads that failed and forced a fallback.",
		}),
	}

	registerer.MustRegister(r.sourceRuns, r.sourceDuration, r.deals, r.queryTiers, r.queryErrors)

	return r
}

func (r *Recorder) ObserveSource(
	source string,
	status entity.RunStatus,
	persisted, discarded, failed int,
	took time.Duration,
) {
	r.sourceRuns.WithLabelValues(source, string(status)).Inc()
	r.sourceDuration.WithLabelValues(source).Observe(took.Seconds())
	r.deals.WithLabelValues(source, "persisted").Add(float64(persisted))
	r.deals.WithLabelValues(source, "discarded").Add(float64(discarded))
	r.deals.WithLabelValues(source, "failed").Add(float64(failed))
}

func (r *Recorder) ObserveTier(tier search.Tier) {
	r.queryTiers.WithLabelValues(string(tier)).Inc()
}

func (r *Recorder) ObserveQueryError() {
	r.queryErrors.Inc()
}

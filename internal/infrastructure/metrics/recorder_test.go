package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/internal/domain/service/search"
	"mortgage_deals/internal/infrastructure/metrics"
)

func TestRecorder(t *testing.T) {
	rq := require.New(t)

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	recorder.ObserveSource("feed", entity.RunStatusSuccess, 3, 1, 2, time.Second)
	recorder.ObserveSource("feed", entity.RunStatusError, 0, 0, 0, time.Second)
	recorder.ObserveTier(search.TierLive)
	recorder.ObserveTier(search.TierLive)
	recorder.ObserveQueryError()

	families, err := registry.Gather()
	rq.NoError(err)

	// counter labels come back sorted by label name
	values := make(map[string]float64)
	for _, family := range families {
		for _, m := range family.GetMetric() {
			if c := m.GetCounter(); c != nil {
				key := family.GetName()
				for _, label := range m.GetLabel() {
					key += "|" + label.GetValue()
				}
				values[key] = c.GetValue()
			}
		}
	}

	rq.InDelta(1, values["mortgage_deals_ingestion_source_runs_total|feed|success"], 0)
	rq.InDelta(1, values["mortgage_deals_ingestion_source_runs_total|feed|error"], 0)
	rq.InDelta(3, values["mortgage_deals_ingestion_deals_total|persisted|feed"], 0)
	rq.InDelta(2, values["mortgage_deals_ingestion_deals_total|failed|feed"], 0)
	rq.InDelta(2, values["mortgage_deals_query_answers_total|live"], 0)
	rq.InDelta(1, values["mortgage_deals_query_repository_errors_total"], 0)

	count, err := testutil.GatherAndCount(registry, "mortgage_deals_ingestion_source_duration_seconds")
	rq.NoError(err)
	rq.Equal(1, count)
}

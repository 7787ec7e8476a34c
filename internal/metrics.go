package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	observationsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuel_observations_appended_total",
		Help: "Number of price observations appended to the ledger",
	})

	observationsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuel_observations_duplicate_total",
		Help: "Number of price observations already present in the ledger",
	})

	ingestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fuel_ingest_errors_total",
		Help: "Number of failed collection runs by kind",
	}, []string{"kind"})

	lastCollection = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fuel_last_collection_timestamp_seconds",
		Help: "Unix time of the last successful collection run",
	})
)

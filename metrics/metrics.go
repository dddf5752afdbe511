package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gotsparams_lookups_total",
			Help: "Parameter lookups by strategy and result (hit, not_found).",
		},
		[]string{"strategy", "result"},
	)

	EntriesRegistered = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gotsparams_entries_registered",
			Help: "Parameter record pairs per strategy in the most recently sealed registry.",
		},
		[]string{"strategy"},
	)

	LoadFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gotsparams_load_failures_total",
			Help: "Rejected parameter sources by source kind (yaml, store).",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(Lookups, EntriesRegistered, LoadFailures)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreLoad = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_document_load",
			Help: "Document loads by outcome (ok, empty, corrupt, error)",
		},
		[]string{"result"},
	)
	StoreSave = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_document_save",
			Help: "Document saves by outcome",
		},
		[]string{"result"},
	)
	StoreMirror = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_snapshot_mirror",
			Help: "Snapshot uploads to the mirror by outcome",
		},
		[]string{"result"},
	)
	Operation = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_operation",
			Help: "Marketplace operations by name and outcome",
		},
		[]string{"operation", "result"},
	)
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

// Result turns an error into a counter label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics registered on the default Prometheus registry:
//   - movietally_pages_fetched_total{status}: page fetches by outcome
//   - movietally_scan_passes_total: completed scanning passes
//   - movietally_reauths_total: mid-scan session renewals
var (
	pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movietally_pages_fetched_total",
		Help: "Page fetches by outcome status.",
	}, []string{"status"})

	passesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movietally_scan_passes_total",
		Help: "Completed scanning passes across all years.",
	})

	reauthsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movietally_reauths_total",
		Help: "Session renewals triggered by mid-scan expiry.",
	})
)

// Package metrics defines the ambient Prometheus instrumentation the
// kernel exposes for each simulated week. This is operational
// observability, distinct from the reporting/analytical views spec.md §2
// scopes out — these are counters/gauges for operators watching a run, not
// query-facing dashboards.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the metrics the Simulation Driver updates once per
// week, grounded on the teacher pack's general use of prometheus/client_golang
// (tomtom215-cartographus) for exactly this ambient-instrumentation role.
// LateFeesAssessed is registered, but the kernel does not increment it.
type Registry struct {
	WeeksCompleted   prometheus.Counter
	RentalsWritten   prometheus.Counter
	NoCandidates     prometheus.Counter
	PaymentsWritten  prometheus.Counter
	LateFeesAssessed prometheus.Counter
	ActiveCustomers  prometheus.Gauge
	InventoryCount   prometheus.Gauge
	WeekDuration     prometheus.Histogram
}

// NewRegistry constructs and registers every metric against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	m := &Registry{
		WeeksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dvdrentalsim", Name: "weeks_completed_total", Help: "Simulated weeks fully committed.",
		}),
		RentalsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dvdrentalsim", Name: "rentals_written_total", Help: "Rental rows written.",
		}),
		NoCandidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dvdrentalsim", Name: "no_candidates_total", Help: "Rental attempts skipped for lack of a candidate customer or copy.",
		}),
		PaymentsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dvdrentalsim", Name: "payments_written_total", Help: "Payment rows written.",
		}),
		LateFeesAssessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dvdrentalsim", Name: "late_fees_assessed_total", Help: "Late fee rows inserted or updated.",
		}),
		ActiveCustomers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dvdrentalsim", Name: "active_customers", Help: "Active customer count as of the last completed week.",
		}),
		InventoryCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dvdrentalsim", Name: "inventory_count", Help: "Total inventory copies as of the last completed week.",
		}),
		WeekDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dvdrentalsim", Name: "week_duration_seconds", Help: "Wall-clock time to process one simulated week.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.WeeksCompleted, m.RentalsWritten, m.NoCandidates, m.PaymentsWritten,
		m.LateFeesAssessed, m.ActiveCustomers, m.InventoryCount, m.WeekDuration,
	)
	return m
}

// metrics.go — Prometheus instruments for observation windows.
// One Metrics set per process; serve mode exposes it via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every instrument issuetap exports. Instruments are
// concurrency-safe; share one set across windows.
type Metrics struct {
	WindowsStarted prometheus.Counter
	WindowsActive  prometheus.Gauge
	IssueEvents    prometheus.Counter
	IssuesKept     *prometheus.CounterVec
	IssuesDropped  prometheus.Counter
	ArtifactsBuilt prometheus.Counter
	BuildSeconds   prometheus.Histogram
	RequestRecords prometheus.Counter
}

// New builds the instrument set and registers it on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WindowsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "issuetap",
			Name:      "windows_started_total",
			Help:      "Observation windows opened",
		}),
		WindowsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "issuetap",
			Name:      "windows_active",
			Help:      "Observation windows currently collecting",
		}),
		IssueEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "issuetap",
			Name:      "issue_events_total",
			Help:      "Inspector issue events observed across all windows",
		}),
		IssuesKept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "issuetap",
			Name:      "issues_kept_total",
			Help:      "Issue details kept in artifacts by category",
		}, []string{"category"}),
		IssuesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "issuetap",
			Name:      "issues_dropped_total",
			Help:      "Issue events that contributed nothing to an artifact",
		}),
		ArtifactsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "issuetap",
			Name:      "artifacts_built_total",
			Help:      "Artifacts produced by closed windows",
		}),
		BuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "issuetap",
			Name:      "build_duration_seconds",
			Help:      "Time spent resolving records and building one artifact",
			Buckets:   prometheus.DefBuckets,
		}),
		RequestRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "issuetap",
			Name:      "request_records_total",
			Help:      "Network request records resolved for closed windows",
		}),
	}

	reg.MustRegister(
		m.WindowsStarted, m.WindowsActive, m.IssueEvents,
		m.IssuesKept, m.IssuesDropped, m.ArtifactsBuilt,
		m.BuildSeconds, m.RequestRecords,
	)
	return m
}

// report.go — The observation report envelope.
package observe

import (
	"time"

	"github.com/issuetap/issuetap/internal/issues"
)

// Report wraps one window's artifact with its observation metadata.
// The embedded artifact keeps its own contract: all fifteen category
// keys, ordered details. Everything else here is context for readers
// and dashboards.
type Report struct {
	ID           string          `json:"id"`
	URL          string          `json:"url,omitempty"`
	StartedAt    time.Time       `json:"startedAt"`
	StoppedAt    time.Time       `json:"stoppedAt"`
	EventCount   int             `json:"eventCount"`
	RequestCount int             `json:"requestCount"`
	Issues       issues.Artifact `json:"issues"`
}

// Duration is the observed window length.
func (r *Report) Duration() time.Duration {
	return r.StoppedAt.Sub(r.StartedAt)
}

// TotalIssues is the number of details kept across all categories.
func (r *Report) TotalIssues() int {
	return r.Issues.Total()
}

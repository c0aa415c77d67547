// metrics_test.go — Tests for instrument registration and counting.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersAllInstruments(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m := New(reg)

	m.WindowsStarted.Inc()
	m.WindowsActive.Inc()
	m.IssueEvents.Add(3)
	m.IssuesKept.WithLabelValues("cors").Add(2)
	m.IssuesDropped.Inc()
	m.ArtifactsBuilt.Inc()
	m.BuildSeconds.Observe(0.05)
	m.RequestRecords.Add(7)

	if got := testutil.ToFloat64(m.WindowsStarted); got != 1 {
		t.Errorf("windows_started_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.IssueEvents); got != 3 {
		t.Errorf("issue_events_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.IssuesKept.WithLabelValues("cors")); got != 2 {
		t.Errorf("issues_kept_total{category=cors} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestRecords); got != 7 {
		t.Errorf("request_records_total = %v, want 7", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) != 8 {
		t.Errorf("registry gathered %d metric families, want 8", len(families))
	}
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("second New on the same registry did not panic")
		}
	}()
	New(reg)
}

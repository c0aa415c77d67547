// http_test.go — Tests for the serve-mode HTTP surface.

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/issuetap/issuetap/internal/devtools"
	"github.com/issuetap/issuetap/internal/issues"
	"github.com/issuetap/issuetap/internal/metrics"
	"github.com/issuetap/issuetap/internal/observe"
)

func testMux(t *testing.T) (*http.ServeMux, *observe.History, *devtools.Trace) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	history := observe.NewHistory(4)
	trace := devtools.NewTrace(8)
	return serveMux(reg, history, trace), history, trace
}

func get(t *testing.T, mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func stoppedReport(id string, stopped time.Time) *observe.Report {
	return &observe.Report{
		ID:        id,
		StartedAt: stopped.Add(-2 * time.Second),
		StoppedAt: stopped,
		Issues:    issues.Build(nil, nil),
	}
}

func TestHealthzEndpoint(t *testing.T) {
	t.Parallel()
	mux, _, _ := testMux(t)

	rec := get(t, mux, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d, want 200", rec.Code)
	}
	var got struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode healthz: %v", err)
	}
	if got.Status != "ok" || got.Version == "" {
		t.Errorf("healthz = %+v, want status ok with a version", got)
	}

	post := httptest.NewRecorder()
	mux.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	if post.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /healthz = %d, want 405", post.Code)
	}
}

func TestReportsEndpoint(t *testing.T) {
	t.Parallel()
	mux, history, _ := testMux(t)

	type listing struct {
		Count   int               `json:"count"`
		Total   uint64            `json:"total"`
		Reports []*observe.Report `json:"reports"`
	}
	decode := func(rec *httptest.ResponseRecorder) listing {
		t.Helper()
		var got listing
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode reports: %v", err)
		}
		return got
	}

	if got := decode(get(t, mux, "/reports")); got.Count != 0 {
		t.Errorf("empty history count = %d, want 0", got.Count)
	}

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	history.Add(stoppedReport("a", base))
	history.Add(stoppedReport("b", base.Add(10*time.Second)))

	got := decode(get(t, mux, "/reports"))
	if got.Count != 2 || got.Total != 2 {
		t.Fatalf("count/total = %d/%d, want 2/2", got.Count, got.Total)
	}
	if got.Reports[0].ID != "b" || got.Reports[1].ID != "a" {
		t.Errorf("report order = %s, %s, want newest first", got.Reports[0].ID, got.Reports[1].ID)
	}

	since := url.QueryEscape(base.Add(5 * time.Second).Format(time.RFC3339))
	got = decode(get(t, mux, "/reports?since="+since))
	if got.Count != 1 || got.Reports[0].ID != "b" {
		t.Errorf("since filter kept %d reports, want just b", got.Count)
	}

	if rec := get(t, mux, "/reports?since=banana"); rec.Code != http.StatusBadRequest {
		t.Errorf("GET /reports?since=banana = %d, want 400", rec.Code)
	}
}

func TestLatestReportEndpoint(t *testing.T) {
	t.Parallel()
	mux, history, _ := testMux(t)

	if rec := get(t, mux, "/reports/latest"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /reports/latest before any round = %d, want 404", rec.Code)
	}

	history.Add(stoppedReport("r1", time.Now()))
	rec := get(t, mux, "/reports/latest")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /reports/latest = %d, want 200", rec.Code)
	}
	var got observe.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if got.ID != "r1" {
		t.Errorf("latest = %q, want r1", got.ID)
	}
	if len(got.Issues) != 15 {
		t.Errorf("latest issues object has %d keys, want 15", len(got.Issues))
	}
}

func TestTraceEndpoint(t *testing.T) {
	t.Parallel()
	mux, _, trace := testMux(t)

	for i := 0; i < 5; i++ {
		trace.Append("Network.requestWillBeSent", json.RawMessage(`{}`))
	}

	rec := get(t, mux, "/debug/trace?n=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /debug/trace = %d, want 200", rec.Code)
	}
	var got struct {
		Total   uint64                `json:"total"`
		Entries []devtools.TraceEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if got.Total != 5 || len(got.Entries) != 3 {
		t.Errorf("trace total/entries = %d/%d, want 5/3", got.Total, len(got.Entries))
	}

	for _, bad := range []string{"0", "-1", "x"} {
		if rec := get(t, mux, "/debug/trace?n="+bad); rec.Code != http.StatusBadRequest {
			t.Errorf("GET /debug/trace?n=%s = %d, want 400", bad, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.WindowsStarted.Inc()
	mux := serveMux(reg, observe.NewHistory(1), devtools.NewTrace(1))

	rec := get(t, mux, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "issuetap_windows_started_total 1") {
		t.Errorf("metrics output missing counter:\n%s", rec.Body.String())
	}
}

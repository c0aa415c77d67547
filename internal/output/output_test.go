// output_test.go — Tests for report rendering.

package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/issuetap/issuetap/internal/issues"
	"github.com/issuetap/issuetap/internal/netlog"
	"github.com/issuetap/issuetap/internal/observe"
)

// sampleReport builds a report with two cors details (one carrying a
// request URL), one deprecation detail, and thirteen empty categories.
func sampleReport() *observe.Report {
	raw := []issues.RawIssue{
		issues.RawIssue(`{"details":{"corsIssueDetails":{"request":{"requestId":"R1","url":"https://site.test/api"}}}}`),
		issues.RawIssue(`{"details":{"corsIssueDetails":{"note":"no reference"}}}`),
		issues.RawIssue(`{"details":{"deprecationIssueDetails":{"type":"OldThing"}}}`),
	}
	records := []netlog.Request{{RequestID: "R1", URL: "https://site.test/api"}}
	started := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return &observe.Report{
		ID:           "w-test",
		URL:          "https://site.test/",
		StartedAt:    started,
		StoppedAt:    started.Add(3 * time.Second),
		EventCount:   len(raw),
		RequestCount: len(records),
		Issues:       issues.Build(raw, records),
	}
}

func TestNew_KnownAndUnknownFormats(t *testing.T) {
	t.Parallel()

	if _, err := New("json"); err != nil {
		t.Errorf("New(json): %v", err)
	}
	if _, err := New("summary"); err != nil {
		t.Errorf("New(summary): %v", err)
	}
	if _, err := New("yaml"); err == nil {
		t.Error("New(yaml) succeeded, want error")
	}
	if _, err := New(""); err == nil {
		t.Error("New(\"\") succeeded, want error")
	}
}

func TestJSONFormatter_KeepsArtifactContract(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	if err := (JSONFormatter{}).Format(&sb, sampleReport()); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := sb.String()
	if !strings.HasSuffix(out, "\n") {
		t.Error("output does not end with a newline")
	}

	var decoded struct {
		ID     string                       `json:"id"`
		URL    string                       `json:"url"`
		Issues map[string][]json.RawMessage `json:"issues"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded.ID != "w-test" || decoded.URL != "https://site.test/" {
		t.Errorf("envelope = %q %q, want w-test https://site.test/", decoded.ID, decoded.URL)
	}
	if len(decoded.Issues) != 15 {
		t.Fatalf("issues object has %d keys, want 15", len(decoded.Issues))
	}
	for _, c := range issues.Categories() {
		if _, ok := decoded.Issues[string(c)]; !ok {
			t.Errorf("issues object missing category %q", c)
		}
	}
	if got := len(decoded.Issues["cors"]); got != 2 {
		t.Errorf("cors details = %d, want 2", got)
	}
}

func TestSummaryFormatter_ListsPopulatedCategoriesInOrder(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	if err := (SummaryFormatter{}).Format(&sb, sampleReport()); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "https://site.test/") {
		t.Errorf("summary missing target URL:\n%s", out)
	}
	if !strings.Contains(out, "3 issue events") || !strings.Contains(out, "3 issues kept") {
		t.Errorf("summary missing counts:\n%s", out)
	}

	corsAt := strings.Index(out, "cors")
	depAt := strings.Index(out, "deprecation")
	if corsAt < 0 || depAt < 0 {
		t.Fatalf("summary missing populated categories:\n%s", out)
	}
	if corsAt > depAt {
		t.Errorf("cors listed after deprecation, want canonical order:\n%s", out)
	}
	if strings.Contains(out, "heavyAd") {
		t.Errorf("summary lists an empty category:\n%s", out)
	}
	if !strings.Contains(out, "- https://site.test/api") {
		t.Errorf("summary missing sample request URL:\n%s", out)
	}
	if !strings.Contains(out, "(13 categories clean)") {
		t.Errorf("summary missing clean-category count:\n%s", out)
	}
}

func TestSummaryFormatter_AllCleanReport(t *testing.T) {
	t.Parallel()

	r := &observe.Report{
		ID:        "w-empty",
		StartedAt: time.Now(),
		StoppedAt: time.Now(),
		Issues:    issues.Build(nil, nil),
	}

	var sb strings.Builder
	if err := (SummaryFormatter{}).Format(&sb, r); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "(no url)") {
		t.Errorf("summary missing url placeholder:\n%s", out)
	}
	if !strings.Contains(out, "(15 categories clean)") {
		t.Errorf("summary missing clean count for empty report:\n%s", out)
	}
}

func TestSampleURLs_SkipsUnusableDetailsAndHonorsLimit(t *testing.T) {
	t.Parallel()

	details := []json.RawMessage{
		json.RawMessage(`{"no":"request"}`),
		json.RawMessage(`{"request":{"url":""}}`),
		json.RawMessage(`{"request":{"url":"https://a.test/1"}}`),
		json.RawMessage(`not json`),
		json.RawMessage(`{"request":{"url":"https://a.test/2"}}`),
		json.RawMessage(`{"request":{"url":"https://a.test/3"}}`),
	}

	got := sampleURLs(details, 2)
	if len(got) != 2 {
		t.Fatalf("sampleURLs returned %d URLs, want 2", len(got))
	}
	if got[0] != "https://a.test/1" || got[1] != "https://a.test/2" {
		t.Errorf("sampleURLs = %v, want first two usable URLs in order", got)
	}
}

// summary.go — Human-readable report rendering.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/issuetap/issuetap/internal/issues"
	"github.com/issuetap/issuetap/internal/observe"
)

// sampleLimit caps how many request URLs are shown per category.
const sampleLimit = 2

// SummaryFormatter writes a short digest: one header, then a line per
// non-empty category in canonical order with up to two sample request
// URLs underneath.
type SummaryFormatter struct{}

func (SummaryFormatter) Format(w io.Writer, report *observe.Report) error {
	var sb strings.Builder

	target := report.URL
	if target == "" {
		target = "(no url)"
	}
	fmt.Fprintf(&sb, "issuetap %s %s\n", report.ID, target)
	fmt.Fprintf(&sb, "observed %s: %d issue events, %d requests, %d issues kept\n",
		report.Duration().Round(time.Millisecond),
		report.EventCount, report.RequestCount, report.TotalIssues())

	clean := 0
	for _, c := range issues.Categories() {
		details := report.Issues[c]
		if len(details) == 0 {
			clean++
			continue
		}
		fmt.Fprintf(&sb, "  %-29s %d\n", c, len(details))
		for _, url := range sampleURLs(details, sampleLimit) {
			fmt.Fprintf(&sb, "    - %s\n", url)
		}
	}
	if clean > 0 {
		fmt.Fprintf(&sb, "  (%d categories clean)\n", clean)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// sampleURLs probes details for request URLs, best effort. Details are
// opaque payloads, so entries without a usable request.url are skipped.
func sampleURLs(details []json.RawMessage, limit int) []string {
	var out []string
	for _, d := range details {
		if len(out) == limit {
			break
		}
		var probe struct {
			Request struct {
				URL string `json:"url"`
			} `json:"request"`
		}
		if err := json.Unmarshal(d, &probe); err != nil || probe.Request.URL == "" {
			continue
		}
		out = append(out, probe.Request.URL)
	}
	return out
}

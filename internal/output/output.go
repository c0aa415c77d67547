// output.go — Report rendering for the CLI.
// Two formats exist: json is the machine-readable artifact contract,
// summary is a short per-category digest for terminals.
package output

import (
	"fmt"
	"io"

	"github.com/issuetap/issuetap/internal/observe"
)

// Formatter renders one observation report to w.
type Formatter interface {
	Format(w io.Writer, report *observe.Report) error
}

// New returns the formatter registered under name.
func New(name string) (Formatter, error) {
	switch name {
	case "json":
		return JSONFormatter{}, nil
	case "summary":
		return SummaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want json or summary)", name)
	}
}

// json.go — Machine-readable report rendering.
package output

import (
	"encoding/json"
	"io"

	"github.com/issuetap/issuetap/internal/observe"
)

// JSONFormatter writes the full report as indented JSON. The issues
// object keeps the artifact contract: all fifteen category keys, each
// holding an ordered array of details.
type JSONFormatter struct{}

func (JSONFormatter) Format(w io.Writer, report *observe.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// dump.go — Portable session dumps for offline artifact builds.
// A dump freezes a window's raw inputs (buffered issues plus the
// network log) so `issuetap build` can reproduce the artifact without
// a browser.
package observe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/issuetap/issuetap/internal/devtools"
	"github.com/issuetap/issuetap/internal/issues"
	"github.com/issuetap/issuetap/internal/netlog"
)

// DumpVersion is the current dump file format version.
const DumpVersion = 1

// Dump is one window's raw observation input, serializable as JSON.
type Dump struct {
	Version    int                `json:"version"`
	ID         string             `json:"id,omitempty"`
	URL        string             `json:"url,omitempty"`
	CapturedAt time.Time          `json:"capturedAt"`
	Issues     []issues.RawIssue  `json:"issues"`
	Log        []devtools.Message `json:"log"`
}

// WriteFile persists the dump as indented JSON.
func (d *Dump) WriteFile(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	return nil
}

// ReadDumpFile loads a dump written by WriteFile.
func ReadDumpFile(path string) (*Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	var d Dump
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode dump %s: %w", path, err)
	}
	if d.Version > DumpVersion {
		return nil, fmt.Errorf("dump %s has unsupported version %d", path, d.Version)
	}
	return &d, nil
}

// Rebuild resolves the dump's network log and builds its artifact, the
// offline counterpart of Window.Stop.
func (d *Dump) Rebuild(ctx context.Context) (*Report, error) {
	log := netlog.NewLog()
	for _, m := range d.Log {
		log.Append(m)
	}
	records, err := netlog.Resolve(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("resolve network records: %w", err)
	}

	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &Report{
		ID:           id,
		URL:          d.URL,
		StartedAt:    d.CapturedAt,
		StoppedAt:    d.CapturedAt,
		EventCount:   len(d.Issues),
		RequestCount: len(records),
		Issues:       issues.Build(d.Issues, records),
	}, nil
}

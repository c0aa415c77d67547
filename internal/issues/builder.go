// builder.go — Reduces buffered issue events to the categorized
// artifact. Pure function over a buffer snapshot; the collector is
// never consulted.
package issues

import (
	"bytes"
	"encoding/json"

	"github.com/issuetap/issuetap/internal/netlog"
)

// issuePayload is the only structure the builder imposes on an issue:
// a details object whose fields are kept raw.
type issuePayload struct {
	Details map[string]json.RawMessage `json:"details"`
}

// requestRef is the shape probed inside category details to find a
// network request reference.
type requestRef struct {
	Request struct {
		RequestID string `json:"requestId"`
	} `json:"request"`
}

// Build reduces raw issues to the categorized artifact, filtering
// request-referencing details against records.
//
// For each issue, in buffer order, every category field present and
// non-null in the issue's details object contributes one entry to that
// category. A single issue may populate several categories; each is
// processed independently. Details that name a network request are kept
// only when the referenced ID appears in records; details without a
// request reference are always kept. Issues that do not decode, carry
// no details object, or match no category contribute nothing, silently.
//
// Build is pure: no I/O, no retained state, inputs are not mutated, and
// concurrent builds over distinct snapshots are safe.
func Build(raw []RawIssue, records []netlog.Request) Artifact {
	known := make(map[string]struct{}, len(records))
	for _, r := range records {
		known[r.RequestID] = struct{}{}
	}

	artifact := NewArtifact()
	for _, issue := range raw {
		var payload issuePayload
		if err := json.Unmarshal(issue, &payload); err != nil || payload.Details == nil {
			continue
		}
		for _, c := range categoryOrder {
			details, ok := payload.Details[detailFields[c]]
			if !ok || isNull(details) {
				continue
			}
			if id, referenced := requestReference(details); referenced {
				if _, inRecords := known[id]; !inRecords {
					continue
				}
			}
			artifact[c] = append(artifact[c], details)
		}
	}
	return artifact
}

// isNull reports whether a raw JSON value is absent or the null
// literal. A present-but-null category field does not populate its
// category.
func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// requestReference extracts the request ID a details payload points at.
// referenced is false when the payload carries no usable reference
// (no request field, no requestId, empty or non-string ID, or a
// non-object payload); such details are kept unconditionally.
func requestReference(details json.RawMessage) (id string, referenced bool) {
	var ref requestRef
	if err := json.Unmarshal(details, &ref); err != nil {
		return "", false
	}
	if ref.Request.RequestID == "" {
		return "", false
	}
	return ref.Request.RequestID, true
}

// artifact.go — The categorized issues artifact.
// Shape is a persisted contract: a JSON object with all fifteen
// category keys, each holding an ordered array of opaque details.
package issues

import "encoding/json"

// RawIssue is one protocol issue payload exactly as it arrived: the
// unwrapped issue object of an Audits.issueAdded event.
type RawIssue = json.RawMessage

// Artifact maps every category to its ordered issue details. A built
// artifact always contains all fifteen categories; empty ones hold
// empty, non-nil slices so serialized artifacts always show every key.
type Artifact map[Category][]json.RawMessage

// NewArtifact returns an artifact with every category present and
// empty.
func NewArtifact() Artifact {
	a := make(Artifact, len(categoryOrder))
	for _, c := range categoryOrder {
		a[c] = []json.RawMessage{}
	}
	return a
}

// Count reports the number of details held for category c.
func (a Artifact) Count(c Category) int {
	return len(a[c])
}

// Total reports the number of details across all categories.
func (a Artifact) Total() int {
	n := 0
	for _, details := range a {
		n += len(details)
	}
	return n
}

// Package issues is the core of issuetap: it collects inspector issue
// events from a protocol session and reduces them to a categorized
// artifact.
//
// The package has two halves that share only the data model:
//
//   - Collector subscribes to Audits.issueAdded on a Session and
//     buffers every issue payload, append-only and ordered, for one
//     observation window.
//   - Build is a pure function from a buffer snapshot plus the
//     window's network request records to an Artifact keyed by the
//     closed set of issue categories.
//
// Issue payloads stay opaque throughout. The builder probes exactly two
// things: which category detail fields an issue populates, and whether
// a populated detail names a network request. Everything else passes
// through byte-for-byte, and anything that does not decode is skipped
// silently: payload shapes drift across browser versions, and erroring
// on an unknown shape would lose the well-formed issues around it.
package issues

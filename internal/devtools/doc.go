// Package devtools defines the protocol-session surface shared by every
// issuetap component.
//
// The package is the foundation layer of the module: it has no
// dependencies on other internal packages and holds only the pieces the
// rest of the tree agrees on.
//
//   - Session: the minimal send/subscribe view of a live DevTools
//     protocol connection. internal/chrome implements it over a real
//     browser; internal/testing fakes it for unit tests.
//   - Message: one recorded protocol event (method + raw params), the
//     unit stored by the network log, the trace ring, and session dumps.
//   - Handlers: the event registry session implementations dispatch
//     through.
//   - Trace: a bounded ring of recent protocol messages kept for
//     diagnostics.
//
// Payloads stay as json.RawMessage throughout. Components that care
// about a payload's shape decode exactly the fields they need and leave
// the rest untouched, so unknown protocol revisions pass through intact.
package devtools

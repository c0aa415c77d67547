// session.go — Protocol session abstraction and method names.
// Session is the only view of the browser connection the rest of the
// module sees; everything above this package is transport-agnostic.
package devtools

import (
	"bytes"
	"context"
	"encoding/json"
)

// Protocol method and event names issuetap speaks. Values are the wire
// names from the DevTools protocol and must not be altered.
const (
	MethodAuditsEnable   = "Audits.enable"
	MethodAuditsDisable  = "Audits.disable"
	MethodNetworkEnable  = "Network.enable"
	MethodNetworkDisable = "Network.disable"

	EventIssueAdded        = "Audits.issueAdded"
	EventRequestWillBeSent = "Network.requestWillBeSent"
	EventResponseReceived  = "Network.responseReceived"
	EventLoadingFinished   = "Network.loadingFinished"
	EventLoadingFailed     = "Network.loadingFailed"
)

// Handler receives the raw params payload of one protocol event.
// Handlers must be fast and non-blocking; they run on the session's
// dispatch path.
type Handler func(params json.RawMessage)

// Session is a live protocol connection scoped to one inspected target.
//
// Send issues a protocol command and blocks until the reply arrives or
// ctx is done. When result is non-nil the reply payload is decoded into
// it. On registers h for the named event and returns its removal func;
// the removal func is idempotent and removing an already-removed
// handler is a no-op.
type Session interface {
	Send(ctx context.Context, method string, params, result any) error
	On(event string, h Handler) (off func())
}

// Message is one protocol event as recorded by issuetap: the method
// name plus the untouched params payload. Messages are what the network
// log accumulates and what session dumps persist.
type Message struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// issueEnvelope is the params shape of an Audits.issueAdded event:
// the issue object arrives wrapped as {"issue": {...}}.
type issueEnvelope struct {
	Issue json.RawMessage `json:"issue"`
}

var nullLiteral = []byte("null")

// DecodeIssue unwraps the issue object from issueAdded event params.
// The second return is false when the params do not decode or carry no
// issue object; callers treat that as an event to ignore.
func DecodeIssue(params json.RawMessage) (json.RawMessage, bool) {
	var env issueEnvelope
	if err := json.Unmarshal(params, &env); err != nil {
		return nil, false
	}
	if len(env.Issue) == 0 || bytes.Equal(bytes.TrimSpace(env.Issue), nullLiteral) {
		return nil, false
	}
	return env.Issue, true
}

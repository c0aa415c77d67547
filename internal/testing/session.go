// session.go — Scripted fake protocol session for unit tests.
// Implements devtools.Session in-memory: commands are recorded,
// configured methods fail on demand, and tests fire events by hand.
// This file is NOT a test file (no _test.go suffix) so it can be
// imported by tests in other packages.
package testing

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/issuetap/issuetap/internal/devtools"
)

// SentCommand records one Send call observed by the fake session.
// IssueSubscribers is the number of issueAdded handlers registered at
// the moment the command was sent, so tests can prove subscription
// happened before enabling.
type SentCommand struct {
	Method           string
	Params           any
	IssueSubscribers int
}

// FakeSession is an in-memory devtools.Session. Safe for concurrent
// use.
type FakeSession struct {
	mu       sync.Mutex
	handlers devtools.Handlers
	sent     []SentCommand
	fail     map[string]error
}

// NewFakeSession returns a fake session with no scripted failures.
func NewFakeSession() *FakeSession {
	return &FakeSession{fail: make(map[string]error)}
}

// Send records the command and returns the scripted error for its
// method, if any. A done context fails the send first, like a real
// transport would.
func (s *FakeSession) Send(ctx context.Context, method string, params, result any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subs := s.handlers.Count(devtools.EventIssueAdded)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, SentCommand{Method: method, Params: params, IssueSubscribers: subs})
	return s.fail[method]
}

// On registers h for the named event.
func (s *FakeSession) On(event string, h devtools.Handler) (off func()) {
	return s.handlers.On(event, h)
}

// FailOn scripts err as the result of every subsequent Send of method.
// A nil err clears the script.
func (s *FakeSession) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, method)
		return
	}
	s.fail[method] = err
}

// Emit dispatches a protocol event to the registered handlers,
// synchronously, like the live session's event pump.
func (s *FakeSession) Emit(event string, params json.RawMessage) {
	s.handlers.Dispatch(event, params)
}

// EmitIssue wraps the given issue JSON in the issueAdded envelope and
// emits it.
func (s *FakeSession) EmitIssue(t *testing.T, issue string) {
	t.Helper()
	if !json.Valid([]byte(issue)) {
		t.Fatalf("issue fixture is not valid JSON: %s", issue)
	}
	s.Emit(devtools.EventIssueAdded, json.RawMessage(`{"issue":`+issue+`}`))
}

// Sent returns a copy of every recorded command in send order.
func (s *FakeSession) Sent() []SentCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentCommand, len(s.sent))
	copy(out, s.sent)
	return out
}

// SentMethods returns just the method names of recorded commands, in
// send order.
func (s *FakeSession) SentMethods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	for i, c := range s.sent {
		out[i] = c.Method
	}
	return out
}

// HandlerCount reports how many handlers are registered for event.
func (s *FakeSession) HandlerCount(event string) int {
	return s.handlers.Count(event)
}

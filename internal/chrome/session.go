// session.go — devtools.Session over a live rod page.
// Commands go straight to the page's protocol client; events come in
// through one typed rod subscription and fan out through the shared
// handler registry, so live and fake sessions dispatch identically.
package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/issuetap/issuetap/internal/devtools"
	"github.com/issuetap/issuetap/internal/util"
)

// Session implements devtools.Session for one browser page.
// Safe for concurrent use. Close releases the page and its event pump.
type Session struct {
	page     *rod.Page
	timeout  time.Duration
	trace    *devtools.Trace
	handlers devtools.Handlers

	stopPump context.CancelFunc
	pumpDone chan struct{}
}

// newSession wraps page and starts its event pump. The pump converts
// the typed rod events issuetap observes back to raw protocol params;
// payload fidelity is bounded by the protocol revision rod is generated
// from, which is fine here because consumers treat params as opaque.
func newSession(page *rod.Page, timeout time.Duration, trace *devtools.Trace) *Session {
	pumpCtx, stop := context.WithCancel(page.GetContext())
	s := &Session{
		page:     page,
		timeout:  timeout,
		trace:    trace,
		stopPump: stop,
		pumpDone: make(chan struct{}),
	}

	wait := page.Context(pumpCtx).EachEvent(
		func(ev *proto.AuditsIssueAdded) { s.dispatch(devtools.EventIssueAdded, ev) },
		func(ev *proto.NetworkRequestWillBeSent) { s.dispatch(devtools.EventRequestWillBeSent, ev) },
		func(ev *proto.NetworkResponseReceived) { s.dispatch(devtools.EventResponseReceived, ev) },
		func(ev *proto.NetworkLoadingFinished) { s.dispatch(devtools.EventLoadingFinished, ev) },
		func(ev *proto.NetworkLoadingFailed) { s.dispatch(devtools.EventLoadingFailed, ev) },
	)
	util.SafeGo("chrome event pump", func() {
		defer close(s.pumpDone)
		wait()
	})
	return s
}

// dispatch converts one typed rod event to raw params and hands it to
// the registered handlers, mirroring it into the trace ring first.
func (s *Session) dispatch(event string, ev any) {
	params, ok := eventParams(ev)
	if !ok {
		return
	}
	if s.trace != nil {
		s.trace.Append(event, params)
	}
	s.handlers.Dispatch(event, params)
}

// eventParams re-encodes a typed protocol event as its wire params.
// Generated event types use the protocol's JSON names, so the result is
// what the raw event carried, minus fields this protocol revision does
// not know.
func eventParams(ev any) (json.RawMessage, bool) {
	params, err := json.Marshal(ev)
	if err != nil {
		return nil, false
	}
	return params, true
}

// Send issues one protocol command on the page's session and decodes
// the reply into result when result is non-nil.
func (s *Session) Send(ctx context.Context, method string, params, result any) error {
	res, err := s.page.Context(ctx).Call(ctx, string(s.page.SessionID), method, params)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(res, result); err != nil {
		return fmt.Errorf("decode %s reply: %w", method, err)
	}
	return nil
}

// On registers h for the named protocol event.
func (s *Session) On(event string, h devtools.Handler) (off func()) {
	return s.handlers.On(event, h)
}

// Navigate drives the page to url, bounded by the session's page
// timeout. It returns once navigation is underway; pair with WaitLoad
// when the load event matters.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.boundedPage(ctx).Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// WaitLoad blocks until the page fires its load event or the page
// timeout expires. Pages that never settle are a normal observation
// target, so callers usually treat this error as advisory.
func (s *Session) WaitLoad(ctx context.Context) error {
	if err := s.boundedPage(ctx).WaitLoad(); err != nil {
		return fmt.Errorf("wait for page load: %w", err)
	}
	return nil
}

// boundedPage scopes the page to ctx plus the configured timeout.
func (s *Session) boundedPage(ctx context.Context) *rod.Page {
	page := s.page.Context(ctx)
	if s.timeout > 0 {
		page = page.Timeout(s.timeout)
	}
	return page
}

// Close stops the event pump and closes the page.
func (s *Session) Close() error {
	s.stopPump()
	<-s.pumpDone
	if err := s.page.Close(); err != nil {
		return fmt.Errorf("close page: %w", err)
	}
	return nil
}

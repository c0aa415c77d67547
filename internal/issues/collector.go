// collector.go — Buffers inspector issue events for one window.
// Subscription and buffering only; interpretation happens later in the
// builder, over a snapshot.
package issues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/issuetap/issuetap/internal/devtools"
)

// Collector lifecycle errors.
var (
	ErrAlreadyCollecting = errors.New("issue collection already started")
	ErrNotCollecting     = errors.New("issue collection not started")
)

// Collector subscribes to inspector issue events on a session and
// buffers every arrival until stopped. The buffer is append-only and
// ordered; nothing is evicted while collecting, and the buffer stays
// readable after Stop. Safe for concurrent use.
type Collector struct {
	mu         sync.Mutex
	collecting bool
	issues     []RawIssue
	off        func()
}

// NewCollector returns an idle collector with an empty buffer.
func NewCollector() *Collector {
	return &Collector{}
}

// Start subscribes to issue events on session and enables the audits
// domain. The handler is registered before the enable command is sent,
// so no event can arrive unobserved. When enabling fails the handler
// is removed again and the error is returned; the collector is then
// idle, not half-started.
func (c *Collector) Start(ctx context.Context, session devtools.Session) error {
	c.mu.Lock()
	if c.collecting {
		c.mu.Unlock()
		return ErrAlreadyCollecting
	}
	c.collecting = true
	off := session.On(devtools.EventIssueAdded, c.onIssueAdded)
	c.off = off
	c.mu.Unlock()

	if err := session.Send(ctx, devtools.MethodAuditsEnable, nil, nil); err != nil {
		c.mu.Lock()
		c.collecting = false
		c.off = nil
		c.mu.Unlock()
		off()
		return fmt.Errorf("enable audits domain: %w", err)
	}
	return nil
}

// Stop removes the issue subscription, then disables the audits domain.
// Removal happens first, so even a failing disable leaves no live
// subscription behind. Events arriving after Stop are not appended.
func (c *Collector) Stop(ctx context.Context, session devtools.Session) error {
	c.mu.Lock()
	if !c.collecting {
		c.mu.Unlock()
		return ErrNotCollecting
	}
	c.collecting = false
	off := c.off
	c.off = nil
	c.mu.Unlock()

	if off != nil {
		off()
	}
	if err := session.Send(ctx, devtools.MethodAuditsDisable, nil, nil); err != nil {
		return fmt.Errorf("disable audits domain: %w", err)
	}
	return nil
}

// onIssueAdded unwraps one issueAdded event and appends its issue
// payload to the buffer. Events without a decodable issue object are
// ignored; beyond the envelope the payload is not inspected.
func (c *Collector) onIssueAdded(params json.RawMessage) {
	issue, ok := devtools.DecodeIssue(params)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.collecting {
		return
	}
	c.issues = append(c.issues, issue)
}

// Issues returns a snapshot copy of the buffer in arrival order. Later
// appends do not affect the returned slice.
func (c *Collector) Issues() []RawIssue {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RawIssue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Len reports the number of buffered issues.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.issues)
}

// Collecting reports whether the collector is currently subscribed.
func (c *Collector) Collecting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collecting
}

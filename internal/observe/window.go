// window.go — One observation window over a protocol session.
// Start turns on network recording and issue collection; Stop tears
// both down, resolves the window's request records, and builds the
// artifact. The window never decides when to run; callers do.
package observe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/issuetap/issuetap/internal/devtools"
	"github.com/issuetap/issuetap/internal/issues"
	"github.com/issuetap/issuetap/internal/metrics"
	"github.com/issuetap/issuetap/internal/netlog"
)

// Window lifecycle errors.
var (
	ErrWindowStarted    = errors.New("observation window already started")
	ErrWindowNotStarted = errors.New("observation window not started")
	ErrWindowStopped    = errors.New("observation window already stopped")
)

// Resolver supplies the network request records for a closed window.
// The default replays the window's own network log.
type Resolver func(ctx context.Context, log *netlog.Log) ([]netlog.Request, error)

// Option configures a Window.
type Option func(*Window)

// WithResolver replaces the default network log resolver.
func WithResolver(r Resolver) Option {
	return func(w *Window) { w.resolve = r }
}

// WithMetrics attaches instruments to the window lifecycle. A nil set
// is allowed and disables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Window) { w.metrics = m }
}

// WithTrace mirrors every observed protocol event into tr.
func WithTrace(tr *devtools.Trace) Option {
	return func(w *Window) { w.trace = tr }
}

// WithURL records the inspected page URL in reports and dumps.
func WithURL(url string) Option {
	return func(w *Window) { w.url = url }
}

// networkEvents are the protocol events recorded into the window's
// network log.
var networkEvents = []string{
	devtools.EventRequestWillBeSent,
	devtools.EventResponseReceived,
	devtools.EventLoadingFinished,
	devtools.EventLoadingFailed,
}

// Window drives one observation over a session. A window runs at most
// once: idle, then started, then stopped. Safe for concurrent use.
type Window struct {
	id        string
	url       string
	session   devtools.Session
	collector *issues.Collector
	log       *netlog.Log
	resolve   Resolver
	metrics   *metrics.Metrics
	trace     *devtools.Trace

	mu        sync.Mutex
	started   bool
	stopped   bool
	startedAt time.Time
	offs      []func()
}

// NewWindow returns an idle window over session.
func NewWindow(session devtools.Session, opts ...Option) *Window {
	w := &Window{
		id:        uuid.NewString(),
		session:   session,
		collector: issues.NewCollector(),
		log:       netlog.NewLog(),
		resolve:   netlog.Resolve,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ID returns the window identifier.
func (w *Window) ID() string { return w.id }

// URL returns the inspected page URL, if one was configured.
func (w *Window) URL() string { return w.url }

// Start subscribes to network and issue events and enables both
// protocol domains. Network recording is wired first so the request
// records cover everything the issue collector can buffer. On failure
// every subscription made so far is removed and the window returns to
// idle.
func (w *Window) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWindowStopped
	}
	if w.started {
		w.mu.Unlock()
		return ErrWindowStarted
	}
	w.started = true
	w.startedAt = time.Now()
	w.mu.Unlock()

	var offs []func()
	for _, ev := range networkEvents {
		ev := ev
		offs = append(offs, w.session.On(ev, func(params json.RawMessage) {
			w.observe(ev, params)
		}))
	}
	offs = append(offs, w.session.On(devtools.EventIssueAdded, func(params json.RawMessage) {
		w.observe(devtools.EventIssueAdded, params)
	}))
	w.mu.Lock()
	w.offs = offs
	w.mu.Unlock()

	if err := w.session.Send(ctx, devtools.MethodNetworkEnable, nil, nil); err != nil {
		w.abortStart()
		return fmt.Errorf("enable network domain: %w", err)
	}
	if err := w.collector.Start(ctx, w.session); err != nil {
		w.abortStart()
		return err
	}

	if w.metrics != nil {
		w.metrics.WindowsStarted.Inc()
		w.metrics.WindowsActive.Inc()
	}
	return nil
}

// observe mirrors one protocol event into the window's log, trace, and
// instruments. Issue events are counted but not logged; the collector
// owns their buffering.
func (w *Window) observe(method string, params json.RawMessage) {
	if method == devtools.EventIssueAdded {
		if w.metrics != nil {
			w.metrics.IssueEvents.Inc()
		}
	} else {
		w.log.Append(devtools.Message{Method: method, Params: params})
	}
	if w.trace != nil {
		w.trace.Append(method, params)
	}
}

// abortStart rolls a failed Start back to idle.
func (w *Window) abortStart() {
	w.unsubscribe()
	w.mu.Lock()
	w.started = false
	w.mu.Unlock()
}

// unsubscribe removes every window subscription. Idempotent.
func (w *Window) unsubscribe() {
	w.mu.Lock()
	offs := w.offs
	w.offs = nil
	w.mu.Unlock()
	for _, off := range offs {
		off()
	}
}

// Stop ends collection and produces the window's report: stop the
// issue collector, tear down network recording, resolve the request
// records, and build the artifact. Collector and resolver failures
// propagate; the buffered issues stay readable through Issues either
// way. Disabling the network domain is best-effort.
func (w *Window) Stop(ctx context.Context) (*Report, error) {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil, ErrWindowNotStarted
	}
	if w.stopped {
		w.mu.Unlock()
		return nil, ErrWindowStopped
	}
	w.stopped = true
	startedAt := w.startedAt
	w.mu.Unlock()

	if w.metrics != nil {
		defer w.metrics.WindowsActive.Dec()
	}

	stopErr := w.collector.Stop(ctx, w.session)
	w.unsubscribe()
	if err := w.session.Send(ctx, devtools.MethodNetworkDisable, nil, nil); err != nil {
		fmt.Fprintf(os.Stderr, "[issuetap] window %s: disable network domain: %v\n", w.id, err)
	}
	if stopErr != nil {
		return nil, stopErr
	}

	buildStart := time.Now()
	records, err := w.resolve(ctx, w.log)
	if err != nil {
		return nil, fmt.Errorf("resolve network records: %w", err)
	}
	raw := w.collector.Issues()
	artifact := issues.Build(raw, records)
	w.record(artifact, raw, records, time.Since(buildStart))

	return &Report{
		ID:           w.id,
		URL:          w.url,
		StartedAt:    startedAt,
		StoppedAt:    time.Now(),
		EventCount:   len(raw),
		RequestCount: len(records),
		Issues:       artifact,
	}, nil
}

// record updates instruments for one completed build.
func (w *Window) record(artifact issues.Artifact, raw []issues.RawIssue, records []netlog.Request, buildTime time.Duration) {
	if w.metrics == nil {
		return
	}
	w.metrics.BuildSeconds.Observe(buildTime.Seconds())
	w.metrics.ArtifactsBuilt.Inc()
	w.metrics.RequestRecords.Add(float64(len(records)))
	for _, c := range issues.Categories() {
		if n := artifact.Count(c); n > 0 {
			w.metrics.IssuesKept.WithLabelValues(string(c)).Add(float64(n))
		}
	}
	// An issue is dropped when it contributes nothing at all: rebuild
	// each one alone to attribute it. Windows buffer few issues, so the
	// extra builds stay cheap.
	dropped := 0
	for _, issue := range raw {
		if issues.Build([]issues.RawIssue{issue}, records).Total() == 0 {
			dropped++
		}
	}
	if dropped > 0 {
		w.metrics.IssuesDropped.Add(float64(dropped))
	}
}

// Issues returns a snapshot of the buffered raw issues, readable at any
// point in the lifecycle. After a failed Stop it is the salvage path.
func (w *Window) Issues() []issues.RawIssue {
	return w.collector.Issues()
}

// Dump captures the window's raw inputs for offline rebuilding.
func (w *Window) Dump() *Dump {
	return &Dump{
		Version:    DumpVersion,
		ID:         w.id,
		URL:        w.url,
		CapturedAt: time.Now(),
		Issues:     w.collector.Issues(),
		Log:        w.log.Messages(),
	}
}

// trace.go — Bounded ring of recent protocol messages.
// Keeps a short diagnostics tail of everything a session dispatched,
// oldest entries overwritten first. Serve mode exposes it at
// /debug/trace.
package devtools

import (
	"encoding/json"
	"sync"
	"time"
)

// DefaultTraceCapacity is used when a config supplies no trace size.
const DefaultTraceCapacity = 256

// TraceEntry is one recorded protocol message with its arrival time.
type TraceEntry struct {
	At     time.Time       `json:"at"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Trace is a fixed-capacity ring of recent protocol messages.
// Safe for concurrent use.
type Trace struct {
	mu    sync.Mutex
	buf   []TraceEntry
	head  int    // next write position
	count int    // valid entries, <= len(buf)
	total uint64 // messages ever appended
}

// NewTrace returns a trace ring holding up to capacity entries.
// Capacities below 1 are raised to 1.
func NewTrace(capacity int) *Trace {
	if capacity < 1 {
		capacity = 1
	}
	return &Trace{buf: make([]TraceEntry, capacity)}
}

// Append records one message, overwriting the oldest entry when full.
func (t *Trace) Append(method string, params json.RawMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.head] = TraceEntry{At: time.Now(), Method: method, Params: params}
	t.head = (t.head + 1) % len(t.buf)
	if t.count < len(t.buf) {
		t.count++
	}
	t.total++
}

// Tail returns up to n most recent entries, oldest first. n values
// larger than the current length are clamped.
func (t *Trace) Tail(n int) []TraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n <= 0 || t.count == 0 {
		return nil
	}
	if n > t.count {
		n = t.count
	}
	start := t.head - n
	if start < 0 {
		start += len(t.buf)
	}
	out := make([]TraceEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, t.buf[(start+i)%len(t.buf)])
	}
	return out
}

// Len reports the number of entries currently held.
func (t *Trace) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Cap reports the ring capacity.
func (t *Trace) Cap() int {
	return len(t.buf)
}

// Total reports how many messages were ever appended, including
// overwritten ones.
func (t *Trace) Total() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

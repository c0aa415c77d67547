// history.go — Bounded in-memory store of recent reports.
// Serve mode keeps the last N reports here; older ones are overwritten.
package observe

import (
	"sync"
	"time"
)

// History is a fixed-capacity ring of reports. Safe for concurrent
// use.
type History struct {
	mu    sync.Mutex
	buf   []*Report
	head  int    // next write position
	count int    // valid entries, <= len(buf)
	total uint64 // reports ever added
}

// NewHistory returns a history holding up to capacity reports.
// Capacities below 1 are raised to 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]*Report, capacity)}
}

// Add stores one report, overwriting the oldest when full.
func (h *History) Add(r *Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.head] = r
	h.head = (h.head + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
	h.total++
}

// Latest returns the most recently added report, or nil when empty.
func (h *History) Latest() *Report {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		return nil
	}
	i := h.head - 1
	if i < 0 {
		i += len(h.buf)
	}
	return h.buf[i]
}

// Reports returns the held reports, newest first.
func (h *History) Reports() []*Report {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Report, 0, h.count)
	for i := 1; i <= h.count; i++ {
		j := h.head - i
		if j < 0 {
			j += len(h.buf)
		}
		out = append(out, h.buf[j])
	}
	return out
}

// Since returns the held reports stopped at or after t, newest first.
func (h *History) Since(t time.Time) []*Report {
	all := h.Reports()
	out := make([]*Report, 0, len(all))
	for _, r := range all {
		if !r.StoppedAt.Before(t) {
			out = append(out, r)
		}
	}
	return out
}

// Len reports the number of reports currently held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Total reports how many reports were ever added, including
// overwritten ones.
func (h *History) Total() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}

// log.go — Ordered accumulation of network protocol messages.
// A Log holds the raw Network.* events a window observed, in arrival
// order, so the recorder can replay them after the window closes.
package netlog

import (
	"sync"

	"github.com/issuetap/issuetap/internal/devtools"
)

// Log is an append-only, ordered store of protocol messages.
// Safe for concurrent use; reads return snapshot copies.
type Log struct {
	mu   sync.Mutex
	msgs []devtools.Message
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append records one message at the end of the log.
func (l *Log) Append(m devtools.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, m)
}

// Messages returns a snapshot copy of the log in arrival order.
// Later appends do not affect the returned slice.
func (l *Log) Messages() []devtools.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]devtools.Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Len reports the number of messages held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

// handlers.go — Event handler registry for session implementations.
// Both the live chrome session and the test fake dispatch through this
// type so subscription semantics stay identical across transports.
package devtools

import (
	"encoding/json"
	"sync"
)

type handlerEntry struct {
	id int
	fn Handler
}

// Handlers maps event names to registered handlers and dispatches
// incoming events to them in registration order. Safe for concurrent
// use. The zero value is ready to use.
type Handlers struct {
	mu   sync.Mutex
	next int
	subs map[string][]handlerEntry
}

// On registers h for the named event and returns its removal func.
// The removal func may be called any number of times; calls after the
// first are no-ops, as is removal of a handler that was never present.
func (hs *Handlers) On(event string, h Handler) (off func()) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if hs.subs == nil {
		hs.subs = make(map[string][]handlerEntry)
	}
	id := hs.next
	hs.next++
	hs.subs[event] = append(hs.subs[event], handlerEntry{id: id, fn: h})
	return func() { hs.remove(event, id) }
}

func (hs *Handlers) remove(event string, id int) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	entries := hs.subs[event]
	for i, e := range entries {
		if e.id == id {
			hs.subs[event] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Dispatch invokes every handler registered for event with params,
// synchronously, in registration order. Events with no handlers are
// dropped. The registry lock is not held during handler execution, so
// handlers may register or remove subscriptions.
func (hs *Handlers) Dispatch(event string, params json.RawMessage) {
	hs.mu.Lock()
	entries := hs.subs[event]
	fns := make([]Handler, len(entries))
	for i, e := range entries {
		fns[i] = e.fn
	}
	hs.mu.Unlock()

	for _, fn := range fns {
		fn(params)
	}
}

// Count reports how many handlers are registered for event.
func (hs *Handlers) Count(event string) int {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return len(hs.subs[event])
}

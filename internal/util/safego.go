// safego.go — Panic-recovering goroutine launcher.
package util

import (
	"fmt"
	"os"
	"runtime/debug"
)

// SafeGo launches fn in a goroutine with deferred panic recovery.
// On panic: logs the name and stack trace to stderr. Does NOT os.Exit —
// background panics should be survivable so serve mode stays up.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "[issuetap] PANIC in %s: %v\n%s\n", name, r, debug.Stack())
			}
		}()
		fn()
	}()
}

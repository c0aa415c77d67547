// main.go — Entry point for the issuetap binary.
//
// issuetap observes pages over the Chrome DevTools Protocol, buffers
// the inspector issues they raise during an observation window, and
// reduces them to a categorized report filtered against the window's
// own network record. Commands:
//
//	watch    observe one page live and print/write its report
//	build    rebuild a report offline from a session dump
//	serve    observe configured pages on a schedule, export metrics
//	version  print the build version
package main

import "os"

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

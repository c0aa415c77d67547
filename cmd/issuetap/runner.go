// runner.go — One observation pass over a page.
package main

import (
	"context"
	"time"

	"github.com/issuetap/issuetap/internal/chrome"
	"github.com/issuetap/issuetap/internal/config"
	"github.com/issuetap/issuetap/internal/observe"
)

// stopTimeout bounds window teardown once the caller's context is no
// longer usable for it.
const stopTimeout = 10 * time.Second

// stopWindow tears the window down on a context detached from the
// caller's cancellation. An interrupt ends the observation hold early;
// it must not also break the disable commands and the build that
// produce the report.
func stopWindow(ctx context.Context, w *observe.Window) (*observe.Report, error) {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()
	return w.Stop(stopCtx)
}

// observePage opens a fresh page, runs one observation window over url,
// and returns the stopped window with its report. The window is
// returned even when observation fails partway so callers can salvage
// its raw buffer (for dumps); it is nil only when the page or the
// window never started.
func observePage(ctx context.Context, browser *chrome.Browser, url string, oc config.ObserveConfig, opts ...observe.Option) (*observe.Window, *observe.Report, error) {
	session, err := browser.Page(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logf("%v", err)
		}
	}()

	w := observe.NewWindow(session, append(opts, observe.WithURL(url))...)
	if err := w.Start(ctx); err != nil {
		return nil, nil, err
	}

	// The window opens before navigation so the very first request and
	// any issue raised against it are on record.
	navStart := time.Now()
	if err := session.Navigate(ctx, url); err != nil {
		if _, stopErr := stopWindow(ctx, w); stopErr != nil {
			logf("stop after failed navigation: %v", stopErr)
		}
		return w, nil, err
	}
	if err := session.WaitLoad(ctx); err != nil {
		// Pages that never fire load are still worth reporting on.
		logf("%s: %v (continuing)", url, err)
	}

	// Hold the window open for the settle period after load, or for
	// whatever is left of the configured duration since navigation
	// started, whichever is longer.
	hold := oc.Settle
	if rest := oc.Duration - time.Since(navStart); rest > hold {
		hold = rest
	}
	select {
	case <-time.After(hold):
	case <-ctx.Done():
	}

	report, err := stopWindow(ctx, w)
	if err != nil {
		return w, nil, err
	}
	return w, report, nil
}

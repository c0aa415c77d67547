// browser.go — Launching or attaching to a Chrome instance.
// The browser is the factory for protocol sessions; one Browser serves
// any number of observation windows over its pages.
package chrome

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/issuetap/issuetap/internal/devtools"
)

// Config controls how the browser connection is established.
type Config struct {
	// DebuggerURL attaches to an already-running browser. Accepts the
	// ws:// control URL as well as the http://host:port form exposed by
	// --remote-debugging-port; empty means launch a fresh browser.
	DebuggerURL string

	// Bin is the browser binary to launch; empty means auto-detect.
	Bin string

	// Headless applies to launched browsers only.
	Headless bool

	// Flags are extra browser switches for launched browsers, each
	// "name" or "name=value", with or without leading dashes.
	Flags []string

	// PageTimeout bounds navigation and load waits per page.
	PageTimeout time.Duration

	// Trace, when non-nil, records every protocol event the sessions
	// of this browser dispatch.
	Trace *devtools.Trace
}

// Browser is a live connection to one Chrome instance.
type Browser struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher // non-nil only when we launched the browser
	controlURL  string
	pageTimeout time.Duration
	trace       *devtools.Trace
}

// Connect attaches to the browser cfg names, launching one first when
// no debugger URL is given. The returned Browser must be closed.
func Connect(ctx context.Context, cfg Config) (*Browser, error) {
	controlURL := cfg.DebuggerURL
	var l *launcher.Launcher

	if controlURL == "" {
		l = newLauncher(cfg)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
	} else {
		u, err := launcher.ResolveURL(controlURL)
		if err != nil {
			return nil, fmt.Errorf("resolve debugger url %s: %w", controlURL, err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("connect to browser at %s: %w", controlURL, err)
	}

	return &Browser{
		browser:     b,
		launcher:    l,
		controlURL:  controlURL,
		pageTimeout: cfg.PageTimeout,
		trace:       cfg.Trace,
	}, nil
}

// newLauncher assembles the rod launcher for cfg.
func newLauncher(cfg Config) *launcher.Launcher {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	for _, raw := range cfg.Flags {
		name, value, hasValue := splitFlag(raw)
		if name == "" {
			continue
		}
		if hasValue {
			l = l.Set(flags.Flag(name), value)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}
	return l
}

// splitFlag normalizes one extra browser switch: leading dashes are
// stripped and an optional "=value" suffix is split off.
func splitFlag(raw string) (name, value string, hasValue bool) {
	raw = strings.TrimLeft(strings.TrimSpace(raw), "-")
	return strings.Cut(raw, "=")
}

// ControlURL returns the ws:// URL the browser is controlled over.
func (b *Browser) ControlURL() string {
	return b.controlURL
}

// Page opens a fresh blank page and wraps it as a protocol session.
// Navigation is the caller's move, so an observation window can start
// before the first request goes out.
func (b *Browser) Page(ctx context.Context) (*Session, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return newSession(page.Context(ctx), b.pageTimeout, b.trace), nil
}

// Close disconnects from the browser. A browser we launched is also
// cleaned up (profile directory removal once the process exits).
func (b *Browser) Close() error {
	err := b.browser.Close()
	if b.launcher != nil {
		b.launcher.Cleanup()
	}
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

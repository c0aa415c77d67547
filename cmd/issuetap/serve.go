// serve.go — The serve command: scheduled observation rounds plus an
// HTTP surface for reports, metrics, and protocol diagnostics.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/issuetap/issuetap/internal/chrome"
	"github.com/issuetap/issuetap/internal/config"
	"github.com/issuetap/issuetap/internal/devtools"
	"github.com/issuetap/issuetap/internal/metrics"
	"github.com/issuetap/issuetap/internal/observe"
	"github.com/issuetap/issuetap/internal/util"
)

var (
	serveListen   string
	serveInterval time.Duration
	servePages    []string
	serveTraceCap int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Observe configured pages on a schedule and export metrics",
	Long: `serve runs observation rounds over a fixed page set, one window per
page per round, and keeps the recent reports in memory. An HTTP server
exposes them at /reports and /reports/latest, Prometheus metrics at
/metrics, and the protocol trace at /debug/trace.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "HTTP listen address")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 0, "pause between observation rounds")
	serveCmd.Flags().StringArrayVar(&servePages, "page", nil, "page URL to observe each round, repeatable (adds to config)")
	serveCmd.Flags().IntVar(&serveTraceCap, "trace-capacity", 0, "protocol trace ring size")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, func(o *config.FlagOverrides) {
		if cmd.Flags().Changed("listen") {
			o.Listen = &serveListen
		}
		if cmd.Flags().Changed("interval") {
			o.Interval = &serveInterval
		}
		if cmd.Flags().Changed("trace-capacity") {
			o.TraceCapacity = &serveTraceCap
		}
	})
	if err != nil {
		return err
	}
	pages := append(append([]string{}, cfg.Serve.Pages...), servePages...)
	if len(pages) == 0 {
		return fmt.Errorf("serve needs at least one page (serve.pages in config, or --page)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	trace := devtools.NewTrace(cfg.Trace.Capacity)
	history := observe.NewHistory(cfg.Serve.History)

	browser, err := chrome.Connect(ctx, chromeConfig(cfg.Chrome, trace))
	if err != nil {
		return err
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logf("%v", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Serve.Listen,
		Handler:           serveMux(reg, history, trace),
		ReadHeaderTimeout: 10 * time.Second,
	}
	util.SafeGo("http server", func() {
		logf("listening on %s", cfg.Serve.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logf("http server: %v", err)
		}
	})

	roundsDone := make(chan struct{})
	util.SafeGo("observation rounds", func() {
		defer close(roundsDone)
		runRounds(ctx, browser, pages, cfg.Observe, cfg.Serve.Interval, history, m)
	})

	<-ctx.Done()
	logf("shutting down")
	<-roundsDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logf("http shutdown: %v", err)
	}
	return nil
}

// runRounds observes every page once per round, first round
// immediately, then one round per interval tick, until ctx ends.
func runRounds(ctx context.Context, browser *chrome.Browser, pages []string, oc config.ObserveConfig, interval time.Duration, history *observe.History, m *metrics.Metrics) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		round(ctx, browser, pages, oc, history, m)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// round runs one observation window per page. A failing page is logged
// and skipped; the round goes on.
func round(ctx context.Context, browser *chrome.Browser, pages []string, oc config.ObserveConfig, history *observe.History, m *metrics.Metrics) {
	for _, url := range pages {
		if ctx.Err() != nil {
			return
		}
		_, report, err := observePage(ctx, browser, url, oc, observe.WithMetrics(m))
		if err != nil {
			logf("observe %s: %v", url, err)
			continue
		}
		history.Add(report)
		logf("observed %s: %d issues kept across %d requests", url, report.TotalIssues(), report.RequestCount)
	}
}

// watch.go — The watch command: observe one page live.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/issuetap/issuetap/internal/chrome"
	"github.com/issuetap/issuetap/internal/config"
	"github.com/issuetap/issuetap/internal/devtools"
	"github.com/issuetap/issuetap/internal/observe"
	"github.com/issuetap/issuetap/internal/output"
)

var (
	watchURL      string
	watchAttach   string
	watchDuration time.Duration
	watchSettle   time.Duration
	watchHeadless bool
	watchBin      string
	watchFlags    []string
	watchDump     string
	watchOut      string
	watchVerbose  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Observe one page and report its inspector issues",
	Long: `watch opens an observation window over one page: enable issue
collection and network recording, navigate, hold the window open, then
stop and report. The report goes to stdout unless --out is given.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "", "page URL to observe (required)")
	watchCmd.Flags().StringVar(&watchAttach, "attach", "", "attach to a running browser (ws:// or http://host:port)")
	watchCmd.Flags().DurationVar(&watchDuration, "duration", 0, "observation length, measured from navigation start")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 0, "extra wait after the page load event")
	watchCmd.Flags().BoolVar(&watchHeadless, "headless", true, "run a launched browser headless")
	watchCmd.Flags().StringVar(&watchBin, "chrome-bin", "", "browser binary to launch")
	watchCmd.Flags().StringArrayVar(&watchFlags, "chrome-flag", nil, "extra browser flag, name or name=value, repeatable")
	watchCmd.Flags().StringVar(&watchDump, "dump", "", "also write the raw session dump to this file")
	watchCmd.Flags().StringVar(&watchOut, "out", "", "write the report here instead of stdout")
	watchCmd.Flags().BoolVar(&watchVerbose, "verbose", false, "dump the protocol trace to stderr after the window")
	_ = watchCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, func(o *config.FlagOverrides) {
		if cmd.Flags().Changed("attach") {
			o.DebuggerURL = &watchAttach
		}
		if cmd.Flags().Changed("chrome-bin") {
			o.Bin = &watchBin
		}
		if cmd.Flags().Changed("headless") {
			o.Headless = &watchHeadless
		}
		if cmd.Flags().Changed("duration") {
			o.Duration = &watchDuration
		}
		if cmd.Flags().Changed("settle") {
			o.Settle = &watchSettle
		}
	})
	if err != nil {
		return err
	}
	formatter, err := output.New(cfg.Output.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var trace *devtools.Trace
	if watchVerbose {
		trace = devtools.NewTrace(cfg.Trace.Capacity)
	}

	chromeCfg := chromeConfig(cfg.Chrome, trace)
	if cmd.Flags().Changed("chrome-flag") {
		chromeCfg.Flags = append(chromeCfg.Flags, watchFlags...)
	}
	browser, err := chrome.Connect(ctx, chromeCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logf("%v", err)
		}
	}()

	window, report, observeErr := observePage(ctx, browser, watchURL, cfg.Observe)

	if trace != nil {
		dumpTrace(trace)
	}
	if watchDump != "" && window != nil {
		if err := window.Dump().WriteFile(watchDump); err != nil {
			if observeErr == nil {
				return err
			}
			logf("%v", err)
		} else {
			logf("session dump written to %s", watchDump)
		}
	}
	if observeErr != nil {
		return observeErr
	}

	return writeReport(formatter, report, watchOut)
}

// writeReport renders the report to path, or to stdout when path is
// empty. File output is staged in memory so a render failure never
// leaves a truncated report behind.
func writeReport(f output.Formatter, report *observe.Report, path string) error {
	if path == "" {
		return f.Format(os.Stdout, report)
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, report); err != nil {
		return fmt.Errorf("format report: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logf("report written to %s", path)
	return nil
}

// dumpTrace prints the recorded protocol tail to stderr.
func dumpTrace(trace *devtools.Trace) {
	entries := trace.Tail(trace.Len())
	logf("protocol trace: %d of %d messages", len(entries), trace.Total())
	for _, e := range entries {
		fmt.Fprintf(os.Stderr, "  %s %s %s\n", e.At.Format("15:04:05.000"), e.Method, e.Params)
	}
}

// root.go — Root command, global flags, and shared command plumbing.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/issuetap/issuetap/internal/chrome"
	"github.com/issuetap/issuetap/internal/config"
	"github.com/issuetap/issuetap/internal/devtools"
)

var (
	configFlag string
	formatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "issuetap",
	Short: "Observe pages and collect their inspector issues",
	Long: `issuetap opens an observation window over a page, buffers the
inspector issues the browser raises while the window is open, and
reduces them to a categorized report filtered against the requests the
page actually made.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Hydrate the environment from .env if present. Real environment
		// variables win over .env values, and flags win over both.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default "+config.DefaultPath+" when present)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "report format: json or summary")
}

// loadConfig runs the configuration cascade for cmd. Only flags the
// user actually set become overrides; extra lets each command map its
// own flags in.
func loadConfig(cmd *cobra.Command, extra func(*config.FlagOverrides)) (config.Config, error) {
	overrides := &config.FlagOverrides{}
	if cmd.Flags().Changed("format") {
		overrides.Format = &formatFlag
	}
	if extra != nil {
		extra(overrides)
	}
	return config.Load(configFlag, overrides)
}

// chromeConfig maps the resolved configuration onto a browser
// connection config. trace may be nil.
func chromeConfig(c config.ChromeConfig, trace *devtools.Trace) chrome.Config {
	return chrome.Config{
		DebuggerURL: c.DebuggerURL,
		Bin:         c.Bin,
		Headless:    c.Headless,
		Flags:       c.Flags,
		PageTimeout: c.PageTimeout,
		Trace:       trace,
	}
}

// logf writes one diagnostic line to stderr. Reports go to stdout;
// everything else goes here.
func logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[issuetap] "+format+"\n", args...)
}

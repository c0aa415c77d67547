// build.go — The build command: rebuild a report from a session dump.
package main

import (
	"github.com/spf13/cobra"

	"github.com/issuetap/issuetap/internal/observe"
	"github.com/issuetap/issuetap/internal/output"
)

var (
	buildDump string
	buildOut  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild a report offline from a session dump",
	Long: `build replays a dump written by watch --dump: resolve the recorded
network log and rebuild the categorized report, no browser involved.
Rebuilding the same dump always yields the same artifact.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildDump, "dump", "", "session dump file (required)")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "write the report here instead of stdout")
	_ = buildCmd.MarkFlagRequired("dump")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	formatter, err := output.New(cfg.Output.Format)
	if err != nil {
		return err
	}

	dump, err := observe.ReadDumpFile(buildDump)
	if err != nil {
		return err
	}
	report, err := dump.Rebuild(cmd.Context())
	if err != nil {
		return err
	}
	return writeReport(formatter, report, buildOut)
}

package main

import (
	"fmt"
	"runtime"

	"github.com/artpar/themekit/bootstrap"
	"github.com/spf13/cobra"
)

// Set via ldflags.
var (
	commit    = "unknown"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "themekit %s\n", bootstrap.Version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", buildDate)
		fmt.Fprintf(out, "  go:      %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

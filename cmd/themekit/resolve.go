package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve NAME...",
	Short: "Resolve resource names against the loaded theme",
	Long: `Load the theme and overlay, then print the value each NAME resolves to.

Names that match neither an exact key nor a wildcard are reported and
the command exits non-zero.

Examples:
  themekit resolve toolbar.clock.color
  themekit resolve --theme ~/.themekit/styles/Emerge window.font menu.title.font`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	missing := 0
	for _, name := range args {
		value, ok := a.Manager.Resolve(name)
		if !ok {
			missing++
			fmt.Fprintf(out, "%s %s\n", crossMark, mutedStyle.Render(strings.ToLower(name)+": not found"))
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render(strings.ToLower(name)), value)
	}

	if missing > 0 {
		return fmt.Errorf("%d of %d names unresolved", missing, len(args))
	}
	return nil
}

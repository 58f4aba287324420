package main

import (
	"fmt"

	"github.com/artpar/themekit/config"
	"github.com/spf13/cobra"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and theme without serving",
	Long: `Load the configuration, run one theme load cycle and report what was
found: the resource file used, entry counts, overlay status and items
that fell back to their defaults.

With --strict, malformed lines and unresolved items are errors.

Examples:
  themekit validate
  themekit validate --config ./themekit.toml --strict`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail on malformed lines or unresolved items")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	source := cfgFile
	if source == "" {
		if found, err := config.Discover(); err == nil {
			source = found
		} else {
			source = "environment"
		}
	}
	fmt.Fprintf(out, "Validating %s...\n\n", source)

	a, err := newApp(cmd)
	if err != nil {
		fmt.Fprintf(out, "  %s Config valid\n", crossMark)
		return err
	}
	defer a.Close()
	fmt.Fprintf(out, "  %s Config valid\n", checkMark)
	fmt.Fprintf(out, "  %s Themes configured: %d\n", checkMark, a.Manager.Registry().Len())

	res, err := a.LoadTheme(cmd.Context())
	if err != nil {
		fmt.Fprintf(out, "  %s Theme loaded\n", crossMark)
		fmt.Fprintf(out, "      Error: %v\n", err)
		return fmt.Errorf("theme error: %w", err)
	}
	fmt.Fprintf(out, "  %s Theme file: %s\n", checkMark, res.Path)
	fmt.Fprintf(out, "  %s Entries: %d exact, %d wildcard\n", checkMark, res.Exact, res.Wildcards)

	problems := 0
	mark := func(bad bool) string {
		if bad {
			problems++
			return crossMark
		}
		return checkMark
	}

	fmt.Fprintf(out, "  %s Malformed lines: %d\n", mark(res.Malformed > 0), res.Malformed)

	if ov := res.Overlay; ov != nil {
		switch {
		case ov.Applied:
			fmt.Fprintf(out, "  %s Overlay: %s (%d merged, %d wildcards ignored)\n", checkMark, ov.Path, ov.Merged, ov.Ignored)
		case ov.Err != nil:
			fmt.Fprintf(out, "  %s Overlay: %s\n", mutedStyle.Render("-"), mutedStyle.Render(ov.Err.Error()))
		}
	}

	fmt.Fprintf(out, "  %s Items resolved: %d (%d via fallback)\n", mark(len(res.Unresolved) > 0), res.Resolved, res.Fallbacks)
	for _, name := range res.Unresolved {
		fmt.Fprintf(out, "      %s\n", mutedStyle.Render(name+" uses its default"))
	}

	fmt.Fprintln(out)
	if validateStrict && problems > 0 {
		return fmt.Errorf("theme has %d problem(s)", problems)
	}
	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}

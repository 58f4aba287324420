package main

import (
	"fmt"
	"os"

	"github.com/artpar/themekit/bootstrap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	themePath   string
	overlayPath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "themekit",
	Short: "Theme resource resolution engine",
	Long: `themekit loads a theme's resource file, merges a user overlay on top
and resolves every registered theme item against the result.

Resource names are matched case-insensitively: exact keys win, then
"prefix*suffix" patterns in file order, then "*suffix" patterns where
the last one in the file wins.

Configuration is read from the file named by --config, or discovered in
$XDG_CONFIG_HOME/themekit and ~/.config/themekit, or built from
THEMEKIT_* environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (discovered when empty)")
	rootCmd.PersistentFlags().StringVar(&themePath, "theme", "", "theme file or directory (overrides theme.path)")
	rootCmd.PersistentFlags().StringVar(&overlayPath, "overlay", "", "overlay resource file (overrides theme.overlay)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "report items that fall back to defaults")
}

// newApp builds the application for one-shot commands. Log output stays
// quiet unless --verbose is given, and metrics go to a private registry.
func newApp(cmd *cobra.Command) (*bootstrap.App, error) {
	level := "error"
	if verbose {
		level = "warn"
	}
	a, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		ThemePath:  themePath,
		Overlay:    overlayPath,
		Verbose:    verbose,
		LogLevel:   level,
		LogOutput:  cmd.ErrOrStderr(),
		Registry:   prometheus.NewRegistry(),
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return a, nil
}

// loadApp builds the application and runs one load cycle.
func loadApp(cmd *cobra.Command) (*bootstrap.App, error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := a.LoadTheme(cmd.Context()); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

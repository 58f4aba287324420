package main

import (
	"github.com/artpar/themekit/bootstrap"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resource query API",
	Long: `Load the theme and serve the HTTP query API until interrupted.

The server will:
  - Load the theme and overlay named by the config (or --theme/--overlay)
  - Answer resource, item and status queries over HTTP
  - Reload the theme on SIGHUP, POST /reload, or file changes (theme.watch)
  - Record a snapshot per load cycle when snapshot.enabled is set
  - Expose Prometheus metrics when metrics.enabled is set

Environment variables:
  THEMEKIT_THEME_PATH       - Theme file or directory
  THEMEKIT_THEME_OVERLAY    - Overlay resource file
  THEMEKIT_SERVER_PORT      - Server port (default: 8087)
  THEMEKIT_LOG_LEVEL        - Log level: debug, info, warn, error

Examples:
  themekit serve
  themekit serve --theme ~/.themekit/styles/Emerge --overlay ~/.themekit/overlay`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		ThemePath:  themePath,
		Overlay:    overlayPath,
		Verbose:    verbose,
	})
	if err != nil {
		return err
	}
	return a.Run(cmd.Context())
}

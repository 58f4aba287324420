package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/artpar/themekit/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Long: `Create the per-user configuration directory and write a starter
config.yaml into it. An existing file is left alone unless --force is
given.

The directory is $XDG_CONFIG_HOME/themekit, or ~/.config/themekit.

Examples:
  themekit init
  themekit init --theme ~/.themekit/styles/Emerge --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

const starterConfig = `# themekit configuration
theme:
  path: %q
  overlay: %q
  verbose: false
  watch: false

themes:
  - name: toolbar
    items:
      - name: toolbar.clock.color
        default: black
      - name: toolbar.font
        default: fixed
        alt_names: [window.font]
      - name: toolbar.pixmap
        kind: pixmap

server:
  host: 127.0.0.1
  port: 8087

logging:
  level: info
  format: console

metrics:
  enabled: true

openapi:
  enabled: true

snapshot:
  enabled: false
  dsn: %q
  keep: 20
`

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := config.UserDir()
	if err != nil {
		return err
	}
	if err := config.EnsureDir(dir); err != nil {
		return err
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s already exists (use --force to overwrite)\n", mutedStyle.Render("-"), path)
		return nil
	}

	theme := themePath
	if theme == "" {
		theme = "~/.themekit/styles/default"
	}
	overlay := overlayPath
	if overlay == "" {
		overlay = "~/.themekit/overlay"
	}

	content := fmt.Sprintf(starterConfig, theme, overlay, filepath.Join(dir, "snapshots.db"))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  %s Wrote %s\n", checkMark, path)
	return nil
}

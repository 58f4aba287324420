package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var dumpPrefix string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the merged resource database",
	Long: `Load the theme and overlay and print the merged resource database in
resource file syntax. Exact keys are sorted; wildcard entries keep their
file order, which decides precedence.

Examples:
  themekit dump
  themekit dump --prefix toolbar. > toolbar.cfg`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringVar(&dumpPrefix, "prefix", "", "only print keys starting with this prefix")
}

func runDump(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.Manager.Store()
	prefix := strings.ToLower(dumpPrefix)
	out := cmd.OutOrStdout()

	exact := store.Exact()
	keys := make([]string, 0, len(exact))
	for k := range exact {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s: %s\n", k, exact[k])
	}

	for _, w := range store.Wildcards() {
		pattern := w.Pattern.String()
		if !strings.HasPrefix(pattern, prefix) {
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", pattern, w.Value)
	}
	return nil
}

package main

import (
	"fmt"
	"strconv"

	"github.com/artpar/themekit/domain/theme"
	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List configured theme items and their resolved values",
	Long: `Load the theme and print every item of every configured theme with the
value it ended up with. Items that kept their default are marked.

Examples:
  themekit items
  themekit items --overlay ~/.themekit/overlay`,
	Args: cobra.NoArgs,
	RunE: runItems,
}

func init() {
	rootCmd.AddCommand(itemsCmd)
}

func runItems(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	themes := a.Manager.Registry().Themes()
	if len(themes) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no themes configured"))
		return nil
	}

	for _, t := range themes {
		fmt.Fprintln(out, headingStyle.Render(t.Name()))
		for _, it := range t.Items() {
			value, loaded := itemValue(it)
			line := fmt.Sprintf("  %s = %s", keyStyle.Render(it.Name()), value)
			if !loaded {
				line += " " + mutedStyle.Render("(default)")
			}
			fmt.Fprintln(out, line)
		}
	}
	return nil
}

func itemValue(it theme.Item) (string, bool) {
	switch v := it.(type) {
	case *theme.Pixmap:
		if v.Path() != "" {
			return v.Get() + " -> " + v.Path(), v.Loaded()
		}
		return v.Get(), v.Loaded()
	case *theme.Value[string]:
		return v.Get(), v.Loaded()
	case *theme.Value[int]:
		return strconv.Itoa(v.Get()), v.Loaded()
	case *theme.Value[bool]:
		return strconv.FormatBool(v.Get()), v.Loaded()
	default:
		return "?", true
	}
}

package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/artpar/themekit/bootstrap"
	"github.com/artpar/themekit/domain/resource"
	"github.com/spf13/cobra"
)

var errSnapshotsDisabled = errors.New("snapshot history is disabled (set snapshot.enabled)")

var (
	snapshotsLimit int
	snapshotsKeep  int
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect recorded load cycles",
	Long: `Inspect the merged resource databases recorded after each successful
load cycle. Requires snapshot.enabled in the configuration.

Examples:
  themekit snapshots list --limit 5
  themekit snapshots show latest
  themekit snapshots prune --keep 10`,
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotsList,
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show ID|latest",
	Short: "Print one snapshot in resource file syntax",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotsShow,
}

var snapshotsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest snapshots",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotsPrune,
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
	snapshotsCmd.AddCommand(snapshotsListCmd, snapshotsShowCmd, snapshotsPruneCmd)

	snapshotsListCmd.Flags().IntVar(&snapshotsLimit, "limit", 20, "maximum snapshots to list (0 for all)")
	snapshotsPruneCmd.Flags().IntVar(&snapshotsKeep, "keep", 20, "snapshots to keep")
}

func snapshotApp(cmd *cobra.Command) (*bootstrap.App, error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, err
	}
	if a.Snapshots == nil {
		a.Close()
		return nil, errSnapshotsDisabled
	}
	return a, nil
}

func runSnapshotsList(cmd *cobra.Command, args []string) error {
	a, err := snapshotApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	headers, err := a.Snapshots.ListHeaders(cmd.Context(), snapshotsLimit)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(headers) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no snapshots recorded"))
		return nil
	}
	for _, h := range headers {
		fmt.Fprintf(out, "%s  %s  %3d exact  %3d wildcard  %s\n",
			keyStyle.Render(h.ID),
			h.LoadedAt.Local().Format("2006-01-02 15:04:05"),
			h.ExactCount, h.WildcardCount,
			mutedStyle.Render(h.Path))
	}
	return nil
}

func runSnapshotsShow(cmd *cobra.Command, args []string) error {
	a, err := snapshotApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var snap resource.Snapshot
	if args[0] == "latest" {
		snap, err = a.Snapshots.Latest(cmd.Context())
	} else {
		snap, err = a.Snapshots.Get(cmd.Context(), args[0])
	}
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# snapshot %s\n", snap.ID)
	fmt.Fprintf(out, "# loaded %s from %s\n", snap.LoadedAt.Format("2006-01-02T15:04:05Z07:00"), snap.Path)
	if snap.Overlay != "" {
		fmt.Fprintf(out, "# overlay %s\n", snap.Overlay)
	}

	keys := make([]string, 0, len(snap.Exact))
	for k := range snap.Exact {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s: %s\n", k, snap.Exact[k])
	}
	for _, w := range snap.Wildcards {
		fmt.Fprintf(out, "%s: %s\n", w.Pattern.String(), w.Value)
	}
	return nil
}

func runSnapshotsPrune(cmd *cobra.Command, args []string) error {
	if snapshotsKeep < 1 {
		return errors.New("--keep must be at least 1")
	}
	a, err := snapshotApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	deleted, err := a.Snapshots.Prune(cmd.Context(), snapshotsKeep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %d snapshot(s)\n", checkMark, deleted)
	return nil
}

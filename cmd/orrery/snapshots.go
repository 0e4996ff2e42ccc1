package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tgrange/orrery/internal/store"
)

var flagKeep int

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots [path]",
	Short: "List saved analysis snapshots",
	Long:  "Lists the snapshots recorded by 'analyze --save', newest first. Subcommands compare and prune them.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshotsList,
}

var snapshotsDiffCmd = &cobra.Command{
	Use:   "diff <old-id> <new-id>",
	Short: "Show edges added and removed between two snapshots",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapshotsDiff,
}

var snapshotsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old snapshots, keeping the most recent",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotsPrune,
}

func init() {
	snapshotsPruneCmd.Flags().IntVar(&flagKeep, "keep", 10, "number of recent snapshots to keep")
	snapshotsCmd.AddCommand(snapshotsDiffCmd, snapshotsPruneCmd)
}

// openSnapshotStore opens the snapshot database for the repository,
// erroring if no snapshot has been saved yet.
func openSnapshotStore(args []string) (*store.Store, error) {
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return nil, err
	}
	repoRoot := findRepoRoot(targetDir)
	cfg, err := loadProjectConfig(repoRoot)
	if err != nil {
		return nil, err
	}
	dbPath := resolveDBPath(repoRoot, cfg)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no snapshot database at %s: run 'orrery analyze --save' first", dbPath)
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func runSnapshotsList(cmd *cobra.Command, args []string) error {
	s, err := openSnapshotStore(args)
	if err != nil {
		return err
	}
	defer s.Close()

	snaps, err := s.ListSnapshots()
	if err != nil {
		return fmt.Errorf("listing snapshots: %w", err)
	}

	switch flagFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snaps)
	case "text":
		formatSnapshotsText(os.Stdout, snaps)
		return nil
	default:
		return fmt.Errorf("snapshots supports text or json output, not %q", flagFormat)
	}
}

func runSnapshotsDiff(cmd *cobra.Command, args []string) error {
	s, err := openSnapshotStore(nil)
	if err != nil {
		return err
	}
	defer s.Close()

	oldID, newID := args[0], args[1]
	for _, id := range []string{oldID, newID} {
		snap, err := s.SnapshotByID(id)
		if err != nil {
			return fmt.Errorf("loading snapshot %s: %w", id, err)
		}
		if snap == nil {
			return fmt.Errorf("no snapshot with id %s", id)
		}
	}

	diff, err := s.DiffSnapshots(oldID, newID)
	if err != nil {
		return fmt.Errorf("diffing snapshots: %w", err)
	}

	switch flagFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diff)
	case "text":
		formatDiffText(os.Stdout, diff)
		return nil
	default:
		return fmt.Errorf("snapshots diff supports text or json output, not %q", flagFormat)
	}
}

func runSnapshotsPrune(cmd *cobra.Command, args []string) error {
	if flagKeep < 0 {
		return fmt.Errorf("--keep must be zero or more, got %d", flagKeep)
	}
	s, err := openSnapshotStore(nil)
	if err != nil {
		return err
	}
	defer s.Close()

	deleted, err := s.PruneSnapshots(flagKeep)
	if err != nil {
		return fmt.Errorf("pruning snapshots: %w", err)
	}

	switch flagFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(deleted)
	case "text":
		for _, id := range deleted {
			fmt.Fprintln(os.Stdout, id)
		}
		fmt.Fprintf(os.Stderr, "Pruned %d snapshots\n", len(deleted))
		return nil
	default:
		return fmt.Errorf("snapshots prune supports text or json output, not %q", flagFormat)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tgrange/orrery/internal/layout"
)

var flagTop int

var rankCmd = &cobra.Command{
	Use:   "rank [path]",
	Short: "Rank files by dependency centrality",
	Long:  "Analyzes the repository and scores every file with PageRank over the dependency graph. Heavily depended-on files rank highest.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().IntVar(&flagTop, "top", 10, "number of files to show (0 = all)")
}

func runRank(cmd *cobra.Command, args []string) error {
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	repoRoot := findRepoRoot(targetDir)
	cfg, err := loadProjectConfig(repoRoot)
	if err != nil {
		return err
	}
	log := newLogger()

	idx, err := buildIndex(targetDir, cfg, log)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, log)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	graph, err := engine.Analyze(cmd.Context(), idx)
	if err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}

	ranks := layout.Ranks(idx.Records(), graph)
	entries := make([]rankEntry, 0, len(ranks))
	for path, rank := range ranks {
		entries = append(entries, rankEntry{Path: path, Rank: rank})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rank != entries[j].Rank {
			return entries[i].Rank > entries[j].Rank
		}
		return entries[i].Path < entries[j].Path
	})
	if flagTop > 0 && len(entries) > flagTop {
		entries = entries[:flagTop]
	}

	switch flagFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "text":
		formatRanksText(os.Stdout, entries)
		return nil
	default:
		return fmt.Errorf("rank supports text or json output, not %q", flagFormat)
	}
}

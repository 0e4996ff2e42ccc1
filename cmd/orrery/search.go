package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tgrange/orrery/internal/search"
)

var flagLimit int

var searchCmd = &cobra.Command{
	Use:   "search [path] query",
	Short: "Search indexed files by path, name, language, or references",
	Long:  "Analyzes the repository and queries the result. Query strings address fields directly, e.g. 'language:python', 'imports:lodash', or 'depends_on:\"src/core.ts\"'. With one argument the current directory is searched.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&flagLimit, "limit", search.DefaultLimit, "maximum hits to return")
}

func runSearch(cmd *cobra.Command, args []string) error {
	// The query is always the last argument; a path may precede it.
	query := args[len(args)-1]

	targetDir, err := resolveTargetDir(args[:len(args)-1])
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

	ix, err := search.Build(idx.Records(), graph)
	if err != nil {
		return fmt.Errorf("building search index: %w", err)
	}
	defer ix.Close()

	hits, err := ix.Search(query, flagLimit)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	switch flagFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	case "text":
		formatHitsText(os.Stdout, hits)
		return nil
	default:
		return fmt.Errorf("search supports text or json output, not %q", flagFormat)
	}
}

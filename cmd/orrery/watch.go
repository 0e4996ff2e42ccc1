package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgrange/orrery"
	"github.com/tgrange/orrery/internal/watch"
)

var (
	flagDebounce time.Duration
	flagWatchOut string
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-analyze the repository on file changes",
	Long:  "Runs a full analysis, then watches the repository and rebuilds the whole graph after each burst of changes. Summaries go to stderr; with --out the graph is rewritten to the file after every rebuild.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", watch.DefaultDebounce, "quiet period before a change fires")
	watchCmd.Flags().StringVar(&flagWatchOut, "out", "", "rewrite the graph to this file after each rebuild")
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	debounce := flagDebounce
	if !cmd.Flags().Changed("debounce") && cfg.Watch.Debounce != "" {
		debounce, err = time.ParseDuration(cfg.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("config: watch.debounce: %w", err)
		}
	}

	engine, err := newEngine(cfg, log)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	rebuild := func() error {
		start := time.Now()
		idx, err := buildIndex(targetDir, cfg, log)
		if err != nil {
			return err
		}
		graph, err := engine.Analyze(cmd.Context(), idx)
		if err != nil {
			return err
		}
		if flagWatchOut != "" {
			if err := writeGraphFile(flagWatchOut, idx, graph); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stderr, "Analyzed %s in %s: %d files, %d edges\n",
			targetDir, time.Since(start).Round(time.Millisecond), idx.Len(), graph.Len())
		return nil
	}
	if err := rebuild(); err != nil {
		return err
	}

	watcher, err := watch.New(targetDir, watch.Options{
		Debounce: debounce,
		Excludes: cfg.Scan.Excludes,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Stop()

	events, err := watcher.Start(cmd.Context())
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Watching %s\n", targetDir)

	// Changes to different files arrive as separate events; one timer
	// collapses each burst into a single rebuild.
	var rebuildTimer *time.Timer
	var rebuildC <-chan time.Time
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "%s %s\n", ev.Op, ev.Path)
			if rebuildTimer == nil {
				rebuildTimer = time.NewTimer(debounce)
				rebuildC = rebuildTimer.C
			} else {
				rebuildTimer.Reset(debounce)
			}
		case <-rebuildC:
			if err := rebuild(); err != nil {
				fmt.Fprintf(os.Stderr, "Rebuild failed: %s\n", err)
			}
		}
	}
}

// writeGraphFile renders the graph to path in the selected format,
// replacing the previous contents.
func writeGraphFile(path string, idx *orrery.FileIndex, graph *orrery.RelationshipGraph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return writeGraph(f, idx, graph)
}
